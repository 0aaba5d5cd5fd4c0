package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/StudyAPI/internal/api"
	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/pipeline/parse"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		Kind:      string(job.Kind),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:      string(job.Status),
			CurrentStep: string(job.CurrentStep),
		},
	}
}

func ToDocumentResponse(sessionId string, doc commonModels.Document) api.DocumentResponse {
	return api.DocumentResponse{
		SessionId: sessionId,
		Name:      doc.Name,
		PageCount: doc.PageCount,
		DocType:   string(doc.ContentType),
	}
}

func ToWorkflowResponse(kind workflowModel.WorkflowKind, state workflowModel.ProgressState, artifact workflowModel.Artifact) api.WorkflowResponse {
	return api.WorkflowResponse{
		Kind:          string(kind),
		Phase:         string(state.Phase),
		Percent:       state.Percent,
		StatusMessage: state.StatusMessage,
		ErrorMessage:  state.ErrorMessage,
		Raw:           artifact.Raw,
		GeneratedAt:   artifact.GeneratedAt,
	}
}

// ToStoryResponse adds the correct option per chapter, empty when the model
// marked none.
func ToStoryResponse(game learningModel.StoryGame) api.StoryResponse {
	correct := make([]string, len(game.Chapters))
	for i, ch := range game.Chapters {
		correct[i] = parse.CorrectOptionId(ch)
	}
	return api.StoryResponse{Game: game, CorrectOptions: correct}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
