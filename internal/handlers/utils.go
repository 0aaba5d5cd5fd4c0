package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

func (h *Handler) writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// the status line is already out
		h.logger.Error("Error encoding response", "error", err)
	}
}

func (h *Handler) validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		h.logger.FromContext(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_ = json.NewEncoder(w).Encode(adapter.BadRequest(id, message, httpCode))
}

// writeError maps orchestrator and pipeline errors onto a status code.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, id string, err error) {
	code := statusForError(err)
	log := h.logger.FromContext(r.Context())
	if code >= http.StatusInternalServerError {
		log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		log.Warn("request rejected", "path", r.URL.Path, "error", err)
	}
	WriteErrorResponse(w, code, id, workflowModel.UserMessage(err))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, workflowModel.ErrSessionNotFound), errors.Is(err, workflowModel.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflowModel.ErrNoDocument), errors.Is(err, workflowModel.ErrNoQuestions), errors.Is(err, workflowModel.ErrNoArtifact):
		return http.StatusConflict
	case errors.Is(err, workflowModel.ErrStaleResult):
		return http.StatusConflict
	case workflowModel.IsConfigurationError(err):
		return http.StatusServiceUnavailable
	case workflowModel.IsExtractionError(err), workflowModel.IsGenerationError(err), workflowModel.IsImageError(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func traceId(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
