package store

import (
	"context"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/patrickmn/go-cache"
)

var inMemLogger = logger_i.NewLogger("InMem JobStore")

// InMemoryJobStore is the fallback when redis is offline. Jobs expire on the
// same TTL the redis store uses.
type InMemoryJobStore struct {
	jobs *cache.Cache
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: cache.New(config.RedisJobStoreTTL, 10*time.Minute),
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStored jobModel.Job) error {
	store.jobs.Set(jobToStored.Id, jobToStored, cache.DefaultExpiration)
	inMemLogger.FromContext(ctx).Debug("Saved job to store", "jobId", jobToStored.Id)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	value, found := store.jobs.Get(jobId)
	inMemLogger.FromContext(ctx).Debug("job lookup", "jobId", jobId, "found", found)
	if !found {
		return jobModel.Job{}, false
	}
	job, ok := value.(jobModel.Job)
	return job, ok
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.jobs.Delete(jobID)
}
