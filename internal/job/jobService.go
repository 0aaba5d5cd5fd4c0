package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// Enqueue records the job as queued and hands it to the worker pool. The send
// blocks while the buffer is full so a burst cannot overwhelm the workers.
func (s *Service) Enqueue(ctx context.Context, newJob jobModel.Job) (jobModel.Job, error) {
	log := s.logger.FromContext(ctx).With("jobId", newJob.Id, "sessionId", newJob.SessionId)

	newJob.CreatedTime = time.Now()
	newJob.Status = jobModel.JobStatusQueued
	newJob.CurrentStep = jobModel.WorkflowInit
	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		log.Error("could not save queued job", "error", err)
	}

	metrics.IncrementJobsInQueue()
	select {
	case s.JobChannel <- newJob:
	case <-ctx.Done():
		metrics.DecrementJobsInQueue()
		return newJob, ctx.Err()
	}
	log.Info("Created new job", "kind", newJob.Kind, "type", newJob.JobType)

	// a new worker every few requests; idle ones retire on their own
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
			log.Debug("dispatcher busy, skipping worker signal")
		}
	}
	return newJob, nil
}

func (s *Service) Status(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
