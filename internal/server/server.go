package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/handlers"
	"github.com/akolanti/StudyAPI/internal/middleware"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Routes mounts every endpoint behind the trace and rate limit middleware.
func Routes(h *handlers.Handler, m *middleware.Middleware) http.Handler {
	r := utils.GetRouter().Router

	r.Get("/health", m.Wrap(h.GetHandler))
	r.Get("/status/{id}", m.Wrap(h.GetStatusHandler))

	r.Post("/documents", m.Wrap(h.PostDocumentHandler))
	r.Post("/learning-path", m.Wrap(h.PostLearningPathHandler))

	r.Route("/sessions/{id}", func(s chi.Router) {
		s.Put("/document", m.Wrap(h.PutDocumentHandler))
		s.Post("/workflows/mcq/retry-wrong", m.Wrap(h.PostRetryWrongHandler))
		s.Post("/workflows/{kind}", m.Wrap(h.PostWorkflowHandler))
		s.Get("/workflows/{kind}", m.Wrap(h.GetWorkflowHandler))
		s.Get("/summary", m.Wrap(h.GetSummaryHandler))
		s.Get("/questions", m.Wrap(h.GetQuestionsHandler))
		s.Get("/story", m.Wrap(h.GetStoryHandler))
		s.Post("/advice", m.Wrap(h.PostAdviceHandler))
		s.Post("/images", m.Wrap(h.PostImageHandler))
	})
	return r
}

func CreateServer(listenAddr string, h *handlers.Handler) {
	_logger = logger_i.NewLogger("Server")

	m := middleware.New(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      Routes(h, m),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
