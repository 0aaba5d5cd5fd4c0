package handlers

import (
	"net/http"

	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/akolanti/StudyAPI/internal/orchestrator"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// Handler serves the http surface. Workflow runs are queued as jobs; every
// read goes straight to the orchestrator.
type Handler struct {
	orchestrator orchestrator.Service
	jobs         *job.Service
	logger       *logger_i.Logger
}

func NewHandler(orchestratorService orchestrator.Service, jobService *job.Service) *Handler {
	h := &Handler{
		orchestrator: orchestratorService,
		jobs:         jobService,
		logger:       logger_i.NewLogger("RequestHandler"),
	}
	h.logger.Info("Starting request handler")
	return h
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
