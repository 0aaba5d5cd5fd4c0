package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/api"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
)

// GetSummaryHandler godoc
// @Summary      Summary text
// @Description  The generated summary with the advice section split off.
// @Tags         Results
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  api.SummaryResponse
// @Failure      404  {object}  api.JobResponse
// @Failure      409  {object}  api.JobResponse  "Summary not generated yet"
// @Router       /sessions/{id}/summary [get]
func (h *Handler) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	summary, advice, err := h.orchestrator.Summary(r.Context(), sessionId)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, api.SummaryResponse{Summary: summary, Advice: advice})
}

// GetQuestionsHandler godoc
// @Summary      Parsed questions
// @Tags         Results
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  api.QuestionsResponse
// @Failure      404  {object}  api.JobResponse
// @Failure      409  {object}  api.JobResponse  "No questions available"
// @Router       /sessions/{id}/questions [get]
func (h *Handler) GetQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	questions, err := h.orchestrator.Questions(r.Context(), sessionId)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, api.QuestionsResponse{Questions: questions})
}

// GetStoryHandler godoc
// @Summary      Parsed story game
// @Tags         Results
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  api.StoryResponse
// @Failure      404  {object}  api.JobResponse
// @Failure      409  {object}  api.JobResponse  "Story not generated yet"
// @Router       /sessions/{id}/story [get]
func (h *Handler) GetStoryHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	game, err := h.orchestrator.StoryGame(r.Context(), sessionId)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, adapter.ToStoryResponse(*game))
}

// PostAdviceHandler godoc
// @Summary      Advice on a wrong answer
// @Tags         Results
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "Session ID"
// @Param        request  body  api.AdviceRequest  true  "Question id and the option chosen"
// @Success      200  {object}  api.AdviceResponse
// @Failure      400  {object}  api.JobResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /sessions/{id}/advice [post]
func (h *Handler) PostAdviceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	var requestData api.AdviceRequest
	if err := decodeBody(r, &requestData); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, "Bad Request")
		return
	}
	if !slices.Contains(learningModel.OptionIds, strings.ToUpper(strings.TrimSpace(requestData.ChosenOption))) {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, "chosenOption must be one of A, B, C or D")
		return
	}
	advice, err := h.orchestrator.AdviseOnMistake(r.Context(), sessionId, requestData.QuestionId, requestData.ChosenOption)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, api.AdviceResponse{Advice: advice})
}

// PostImageHandler godoc
// @Summary      Chapter image
// @Description  Looks the chapter image up in the fixed table for the fixed document, otherwise generates one from the prompt.
// @Tags         Results
// @Accept       json
// @Produce      json
// @Param        id       path  string            true  "Session ID"
// @Param        request  body  api.ImageRequest  true  "Chapter index (0 based) and image prompt"
// @Success      200  {object}  api.ImageResponse
// @Failure      404  {object}  api.JobResponse
// @Failure      502  {object}  api.JobResponse  "Image lookup or generation failed"
// @Router       /sessions/{id}/images [post]
func (h *Handler) PostImageHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "id")
	var requestData api.ImageRequest
	if err := decodeBody(r, &requestData); err != nil || requestData.ChapterIndex < 0 {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, "Bad Request")
		return
	}
	link, err := h.orchestrator.ResolveImage(r.Context(), sessionId, requestData.ChapterIndex, requestData.Prompt)
	if err != nil {
		h.writeError(w, r, sessionId, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, api.ImageResponse{URL: link})
}

// PostLearningPathHandler godoc
// @Summary      Learning path for a topic
// @Description  Builds a search query and a staged learning path. Falls back to keyword rules when the completion service is unavailable.
// @Tags         Results
// @Accept       json
// @Produce      json
// @Param        request  body  api.LearningPathRequest  true  "Topic"
// @Success      200  {object}  api.LearningPathResponse
// @Failure      400  {object}  api.JobResponse
// @Router       /learning-path [post]
func (h *Handler) PostLearningPathHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	var requestData api.LearningPathRequest
	if err := decodeBody(r, &requestData); err != nil || strings.TrimSpace(requestData.Input) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "input is required")
		return
	}
	query, path := h.orchestrator.LearningPath(r.Context(), requestData.Input)
	h.writeJsonResponse(w, http.StatusOK, api.LearningPathResponse{SearchQuery: query, Path: path})
}
