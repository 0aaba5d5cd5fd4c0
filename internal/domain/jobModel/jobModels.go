package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	WorkflowInit InternalStatus = "Init"
	Extraction   InternalStatus = "Extraction"
	LLMCall      InternalStatus = "LLM"
	Error        InternalStatus = "Error"
	Complete     InternalStatus = "Complete"

	JobTypeGenerate   JobType = "Generate"
	JobTypeRegenerate JobType = "Regenerate"
	JobTypeRetryWrong JobType = "RetryWrong"
)

// Job is one queued workflow run. The worker pool executes it against the
// orchestrator and records the outcome here for the status endpoint.
type Job struct {
	Id          string                     `json:"id"`
	SessionId   string                     `json:"session_id"`
	TraceId     string                     `json:"trace_id"`
	JobType     JobType                    `json:"job_type"`
	Kind        workflowModel.WorkflowKind `json:"kind"`
	WrongIds    []int                      `json:"wrong_ids,omitempty"`
	Error       JobError                   `json:"error,omitempty"`
	CreatedTime time.Time                  `json:"created_time"`
	EndTime     time.Time                  `json:"end_time,omitempty"`
	Status      JobStatus                  `json:"status"`
	CurrentStep InternalStatus             `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
