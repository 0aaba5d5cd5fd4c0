package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/api"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

// PostWorkflowHandler godoc
// @Summary      Start a workflow
// @Description  Queues a summary, mcq or story run for the session document. A finished workflow is returned as is unless regenerate=true.
// @Tags         Workflows
// @Produce      json
// @Param        id          path   string  true   "Session ID"
// @Param        kind        path   string  true   "summary, mcq or story"
// @Param        regenerate  query  bool    false  "Discard the stored result and generate again"
// @Success      200  {object}  api.WorkflowResponse  "Workflow already done"
// @Success      202  {object}  api.InitJobResponse   "Job queued"
// @Failure      400  {object}  api.JobResponse       "Unknown workflow kind"
// @Failure      404  {object}  api.JobResponse       "Session not found"
// @Failure      409  {object}  api.JobResponse       "No document loaded or a run of this kind is in progress"
// @Router       /sessions/{id}/workflows/{kind} [post]
func (h *Handler) PostWorkflowHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	ctx := r.Context()
	sessionId := utils.GetChiURLParam(r, "id")
	kind, err := workflowModel.ParseKind(utils.GetChiURLParam(r, "kind"))
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, err.Error())
		return
	}
	regenerate, _ := strconv.ParseBool(r.URL.Query().Get("regenerate"))

	if _, err := h.orchestrator.Document(ctx, sessionId); err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	state, err := h.orchestrator.Progress(ctx, sessionId, kind)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	if state.Phase.InFlight() {
		WriteErrorResponse(w, http.StatusConflict, sessionId, fmt.Sprintf("%s generation is already in progress.", kind.Label()))
		return
	}
	if state.Phase == workflowModel.PhaseDone && !regenerate {
		artifact, err := h.orchestrator.Artifact(ctx, sessionId, kind)
		if err != nil {
			h.writeError(w, r, sessionId, err)
			return
		}
		h.writeJsonResponse(w, http.StatusOK, adapter.ToWorkflowResponse(kind, state, artifact))
		return
	}

	jobType := jobModel.JobTypeGenerate
	if regenerate {
		jobType = jobModel.JobTypeRegenerate
	}
	h.enqueue(w, r, jobModel.Job{SessionId: sessionId, JobType: jobType, Kind: kind})
}

// PostRetryWrongHandler godoc
// @Summary      New questions from wrong answers
// @Description  Queues an MCQ run built only from the questions the user answered wrong. The document is not extracted again.
// @Tags         Workflows
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "Session ID"
// @Param        request  body  api.RetryWrongRequest   true  "Ids of the wrong questions"
// @Success      202  {object}  api.InitJobResponse
// @Failure      400  {object}  api.JobResponse  "No ids given"
// @Failure      404  {object}  api.JobResponse  "Session or question not found"
// @Failure      409  {object}  api.JobResponse  "No questions generated yet"
// @Router       /sessions/{id}/workflows/mcq/retry-wrong [post]
func (h *Handler) PostRetryWrongHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	var requestData api.RetryWrongRequest
	if err := decodeBody(r, &requestData); err != nil || len(requestData.WrongQuestionIds) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, "wrongQuestionIds is required")
		return
	}

	questions, err := h.orchestrator.Questions(r.Context(), sessionId)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	known := make(map[int]bool, len(questions))
	for _, q := range questions {
		known[q.Id] = true
	}
	for _, id := range requestData.WrongQuestionIds {
		if !known[id] {
			WriteErrorResponse(w, http.StatusNotFound, sessionId, fmt.Sprintf("question %d not found", id))
			return
		}
	}

	h.enqueue(w, r, jobModel.Job{
		SessionId: sessionId,
		JobType:   jobModel.JobTypeRetryWrong,
		Kind:      workflowModel.Mcq,
		WrongIds:  requestData.WrongQuestionIds,
	})
}

// GetWorkflowHandler godoc
// @Summary      Workflow progress
// @Description  Returns the phase, percent and status line of one workflow, plus the raw result once done.
// @Tags         Workflows
// @Produce      json
// @Param        id    path  string  true  "Session ID"
// @Param        kind  path  string  true  "summary, mcq or story"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      400  {object}  api.JobResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /sessions/{id}/workflows/{kind} [get]
func (h *Handler) GetWorkflowHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	kind, err := workflowModel.ParseKind(utils.GetChiURLParam(r, "kind"))
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, err.Error())
		return
	}
	state, err := h.orchestrator.Progress(r.Context(), sessionId, kind)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	artifact, err := h.orchestrator.Artifact(r.Context(), sessionId, kind)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, adapter.ToWorkflowResponse(kind, state, artifact))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a queued workflow job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func (h *Handler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	h.logger.FromContext(r.Context()).Debug("Get Status Request", "URL path", r.URL.Path)

	result, isFound := h.jobs.Status(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	h.writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request, newJob jobModel.Job) {
	newJob.Id = utils.GetNewUUID()
	newJob.TraceId = traceId(r.Context())
	if _, err := h.jobs.Enqueue(r.Context(), newJob); err != nil {
		h.logger.FromContext(r.Context()).Error("could not queue job", "error", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, newJob.Id, "Could not queue the request, try again")
		return
	}
	h.writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id))
}
