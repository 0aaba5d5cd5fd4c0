package worker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
)

func (p *Pool) executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.WorkflowTimeout)
	defer cancel()
	log := p.logger.FromContext(ctx).With("jobId", job.Id, "sessionId", job.SessionId, "kind", job.Kind)
	log.Debug("Processing job")

	job.CurrentStep = jobModel.Extraction
	if job.JobType == jobModel.JobTypeRetryWrong {
		// the mcq retry skips extraction
		job.CurrentStep = jobModel.LLMCall
	}
	job = p.saveJobState(ctx, job, jobModel.JobStatusRunning)

	stopTracking := func() {}
	if job.CurrentStep == jobModel.Extraction {
		stopTracking = p.trackStep(ctx, job)
	}

	var err error
	switch job.JobType {
	case jobModel.JobTypeRegenerate:
		_, err = p.orchestrator.Regenerate(ctx, job.SessionId, job.Kind)
	case jobModel.JobTypeRetryWrong:
		_, err = p.orchestrator.RegenerateFromWrong(ctx, job.SessionId, job.WrongIds)
	default:
		_, err = p.orchestrator.Generate(ctx, job.SessionId, job.Kind)
	}
	stopTracking()

	job.EndTime = time.Now()
	if err != nil {
		log.Error("job failed", "error", err)
		job.CurrentStep = jobModel.Error
		job.Error = toJobError(err)
		job = p.saveJobState(ctx, job, jobModel.JobStatusError)
		return
	}
	job.CurrentStep = jobModel.Complete
	job = p.saveJobState(ctx, job, jobModel.JobStatusComplete)
}

// toJobError maps a workflow failure onto the status record. Configuration
// errors cannot be fixed by retrying.
func toJobError(err error) jobModel.JobError {
	jobErr := jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: workflowModel.UserMessage(err),
		Retry:   true,
	}
	switch {
	case workflowModel.IsConfigurationError(err):
		jobErr.Code = http.StatusServiceUnavailable
		jobErr.Retry = false
	case workflowModel.IsExtractionError(err), workflowModel.IsGenerationError(err):
		jobErr.Code = http.StatusBadGateway
	case errors.Is(err, workflowModel.ErrStaleResult):
		jobErr.Code = http.StatusConflict
		jobErr.Retry = false
	case errors.Is(err, workflowModel.ErrSessionNotFound), errors.Is(err, workflowModel.ErrQuestionNotFound):
		jobErr.Code = http.StatusNotFound
		jobErr.Retry = false
	case errors.Is(err, workflowModel.ErrNoDocument), errors.Is(err, workflowModel.ErrNoQuestions):
		jobErr.Code = http.StatusBadRequest
		jobErr.Retry = false
	case errors.Is(err, context.DeadlineExceeded):
		jobErr.Code = http.StatusGatewayTimeout
	}
	return jobErr
}

// removeWorker expects the worker count to be decremented already.
func (p *Pool) removeWorker(reason string) {
	p.wg.Done()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", p.WorkerCount())
	metrics.DecrementActiveWorkerCount()
}

// trackStep moves the stored job to the LLM step once the workflow leaves
// extraction. The returned func stops tracking and waits for it to exit, so
// no step update can land after the final state.
func (p *Pool) trackStep(ctx context.Context, job jobModel.Job) func() {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(config.JobStepPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				state, err := p.orchestrator.Progress(ctx, job.SessionId, job.Kind)
				if err != nil || state.Phase != workflowModel.PhaseGenerating {
					continue
				}
				job.CurrentStep = jobModel.LLMCall
				p.saveJobState(ctx, job, jobModel.JobStatusRunning)
				return
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

func (p *Pool) saveJobState(ctx context.Context, job jobModel.Job, jobStatus jobModel.JobStatus) jobModel.Job {
	job.Status = jobStatus
	if err := p.jobs.JobStore.SaveJob(ctx, job); err != nil {
		p.logger.Error("Failed to update job status", "jobId", job.Id, "error", err)
	}
	return job
}
