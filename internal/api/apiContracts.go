package api

import (
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id" example:"8a1f0c52-3b1e-4f0e-9a57-1d3c2f6b9e10"`
	Kind      string            `json:"kind,omitempty" example:"mcq"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status      string `json:"status"`
	CurrentStep string `json:"current_step,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DocumentResponse struct {
	SessionId string `json:"session_id"`
	Name      string `json:"doc_name"`
	PageCount int    `json:"page_count"`
	DocType   string `json:"doc_type"`
}

type WorkflowResponse struct {
	Kind          string    `json:"kind" example:"summary"`
	Phase         string    `json:"phase" example:"generating"`
	Percent       int       `json:"percent" example:"100"`
	StatusMessage string    `json:"status_message" example:"Requesting summary from AI..."`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Raw           string    `json:"raw,omitempty"`
	GeneratedAt   time.Time `json:"generated_at,omitempty"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
	Advice  string `json:"advice,omitempty"`
}

type QuestionsResponse struct {
	Questions []learningModel.Question `json:"questions"`
}

type StoryResponse struct {
	Game           learningModel.StoryGame `json:"game"`
	CorrectOptions []string                `json:"correct_options"`
}

type AdviceResponse struct {
	Advice string `json:"advice"`
}

type ImageResponse struct {
	URL string `json:"url"`
}

type LearningPathResponse struct {
	SearchQuery string                     `json:"search_query"`
	Path        learningModel.LearningPath `json:"path"`
}

// requests---------------------

type RetryWrongRequest struct {
	WrongQuestionIds []int `json:"wrongQuestionIds" validate:"required"`
}

type AdviceRequest struct {
	QuestionId   int    `json:"questionId" validate:"required"`
	ChosenOption string `json:"chosenOption" validate:"required" example:"B"`
}

type ImageRequest struct {
	ChapterIndex int    `json:"chapterIndex"`
	Prompt       string `json:"prompt"`
}

type LearningPathRequest struct {
	Input string `json:"input" validate:"required" example:"python for beginners"`
}
