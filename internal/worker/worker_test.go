package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/prometheus/client_golang/prometheus"
)

// MockOrchestrator counts the workflow calls the pool makes
type MockOrchestrator struct {
	OnGenerate     func(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error)
	OnProgress     func(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.ProgressState, error)
	GenerateCount  int32
	RegenCount     int32
	RetryWrongSeen []int
	mu             sync.Mutex
}

func (m *MockOrchestrator) CreateSession(ctx context.Context) string { return "session" }
func (m *MockOrchestrator) SetDocument(ctx context.Context, id string, doc commonModels.Document) error {
	return nil
}
func (m *MockOrchestrator) Document(ctx context.Context, id string) (commonModels.Document, error) {
	return commonModels.Document{}, nil
}

func (m *MockOrchestrator) Generate(ctx context.Context, id string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
	atomic.AddInt32(&m.GenerateCount, 1)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, id, kind)
	}
	return workflowModel.Artifact{Kind: kind, Raw: "raw"}, nil
}

func (m *MockOrchestrator) Regenerate(ctx context.Context, id string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
	atomic.AddInt32(&m.RegenCount, 1)
	return workflowModel.Artifact{Kind: kind, Raw: "raw"}, nil
}

func (m *MockOrchestrator) RegenerateFromWrong(ctx context.Context, id string, wrong []int) (workflowModel.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetryWrongSeen = append(m.RetryWrongSeen, wrong...)
	return workflowModel.Artifact{Kind: workflowModel.Mcq, Raw: "raw"}, nil
}

func (m *MockOrchestrator) Progress(ctx context.Context, id string, kind workflowModel.WorkflowKind) (workflowModel.ProgressState, error) {
	if m.OnProgress != nil {
		return m.OnProgress(ctx, id, kind)
	}
	return workflowModel.IdleState(), nil
}
func (m *MockOrchestrator) Artifact(ctx context.Context, id string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
	return workflowModel.Artifact{}, nil
}
func (m *MockOrchestrator) Questions(ctx context.Context, id string) ([]learningModel.Question, error) {
	return nil, nil
}
func (m *MockOrchestrator) StoryGame(ctx context.Context, id string) (*learningModel.StoryGame, error) {
	return nil, nil
}
func (m *MockOrchestrator) Summary(ctx context.Context, id string) (string, string, error) {
	return "", "", nil
}
func (m *MockOrchestrator) AdviseOnMistake(ctx context.Context, id string, q int, chosen string) (string, error) {
	return "", nil
}
func (m *MockOrchestrator) LearningPath(ctx context.Context, input string) (string, learningModel.LearningPath) {
	return "", learningModel.LearningPath{}
}
func (m *MockOrchestrator) ResolveImage(ctx context.Context, id string, chapter int, prompt string) (string, error) {
	return "", nil
}

type MockJobStore struct {
	mu   sync.Mutex
	jobs map[string]jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobId]
	return j, ok
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = make(map[string]jobModel.Job)
	}
	m.jobs[j.Id] = j
	return nil
}

func newTestPool(t *testing.T, orch *MockOrchestrator, idle time.Duration) (*Pool, *job.Service, *MockJobStore, chan bool, *sync.WaitGroup) {
	t.Helper()
	store := &MockJobStore{}
	jobSvc := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          store,
	})
	stop := make(chan bool)
	wg := &sync.WaitGroup{}
	pool := NewPool(PoolConfig{Jobs: jobSvc, Orchestrator: orch, Stop: stop, Group: wg, IdleTimeout: idle})
	return pool, jobSvc, store, stop, wg
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWorkerPool_Flow(t *testing.T) {
	orch := &MockOrchestrator{}
	pool, jobSvc, store, stop, wg := newTestPool(t, orch, time.Minute)
	pool.Start()
	ctx := context.Background()

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		waitUntil(t, func() bool { return pool.WorkerCount() == 2 })
	})

	t.Run("Worker runs each job type", func(t *testing.T) {
		_, _ = jobSvc.Enqueue(ctx, jobModel.Job{Id: "gen", SessionId: "s", Kind: workflowModel.Summary, JobType: jobModel.JobTypeGenerate})
		_, _ = jobSvc.Enqueue(ctx, jobModel.Job{Id: "regen", SessionId: "s", Kind: workflowModel.Mcq, JobType: jobModel.JobTypeRegenerate})
		_, _ = jobSvc.Enqueue(ctx, jobModel.Job{Id: "wrong", SessionId: "s", Kind: workflowModel.Mcq, JobType: jobModel.JobTypeRetryWrong, WrongIds: []int{3}})

		waitUntil(t, func() bool {
			for _, id := range []string{"gen", "regen", "wrong"} {
				j, ok := store.GetJob(ctx, id)
				if !ok || j.Status != jobModel.JobStatusComplete {
					return false
				}
			}
			return true
		})
		gen, regen := atomic.LoadInt32(&orch.GenerateCount), atomic.LoadInt32(&orch.RegenCount)
		if gen != 1 || regen != 1 {
			t.Errorf("unexpected calls generate=%d regenerate=%d", gen, regen)
		}
		orch.mu.Lock()
		defer orch.mu.Unlock()
		if len(orch.RetryWrongSeen) != 1 || orch.RetryWrongSeen[0] != 3 {
			t.Errorf("wrong ids not forwarded: %v", orch.RetryWrongSeen)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stop)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_FailedJobRecordsError(t *testing.T) {
	orch := &MockOrchestrator{OnGenerate: func(context.Context, string, workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
		return workflowModel.Artifact{}, workflowModel.NewConfigurationError("OpenRouter API key is not configured. Check .env file and restart server.", nil)
	}}
	pool, jobSvc, store, stop, _ := newTestPool(t, orch, time.Minute)
	defer close(stop)
	pool.Start()
	ctx := context.Background()

	_, _ = jobSvc.Enqueue(ctx, jobModel.Job{Id: "bad", SessionId: "s", Kind: workflowModel.Story})

	waitUntil(t, func() bool {
		j, ok := store.GetJob(ctx, "bad")
		return ok && j.Status == jobModel.JobStatusError
	})
	j, _ := store.GetJob(ctx, "bad")
	if j.Error.Retry || j.Error.Code != 503 || j.CurrentStep != jobModel.Error {
		t.Errorf("unexpected job error %+v", j.Error)
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	pool, jobSvc, _, stop, _ := newTestPool(t, &MockOrchestrator{}, 50*time.Millisecond)
	defer close(stop)
	pool.Start()

	jobSvc.DispatcherChannel <- true
	waitUntil(t, func() bool { return pool.WorkerCount() == 2 })

	// the extra worker retires, the minimum stays
	waitUntil(t, func() bool { return pool.WorkerCount() == 1 })
	time.Sleep(150 * time.Millisecond)
	if got := pool.WorkerCount(); got != 1 {
		t.Errorf("pool dropped below its minimum, count is %d", got)
	}
}

// jobDurationSamples reads the job duration histogram count for one status label
func jobDurationSamples(t *testing.T, status jobModel.JobStatus) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "process_request_duration_seconds" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == string(status) {
					return m.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	return 0
}

func TestWorker_JobMetricUsesFinalStatus(t *testing.T) {
	pool, jobSvc, _, stop, _ := newTestPool(t, &MockOrchestrator{}, time.Minute)
	defer close(stop)
	queuedBefore := jobDurationSamples(t, jobModel.JobStatusQueued)
	completeBefore := jobDurationSamples(t, jobModel.JobStatusComplete)
	pool.Start()

	_, _ = jobSvc.Enqueue(context.Background(), jobModel.Job{Id: "metric", SessionId: "s", Kind: workflowModel.Summary})

	waitUntil(t, func() bool { return jobDurationSamples(t, jobModel.JobStatusComplete) == completeBefore+1 })
	if got := jobDurationSamples(t, jobModel.JobStatusQueued); got != queuedBefore {
		t.Errorf("job duration recorded under QUEUED, samples went from %d to %d", queuedBefore, got)
	}
}

func TestWorker_StepFollowsWorkflowPhase(t *testing.T) {
	var phase atomic.Value
	phase.Store(workflowModel.PhaseExtracting)
	release := make(chan struct{})
	orch := &MockOrchestrator{
		OnGenerate: func(ctx context.Context, _ string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
			select {
			case <-release:
			case <-ctx.Done():
				return workflowModel.Artifact{}, ctx.Err()
			}
			return workflowModel.Artifact{Kind: kind, Raw: "raw"}, nil
		},
		OnProgress: func(context.Context, string, workflowModel.WorkflowKind) (workflowModel.ProgressState, error) {
			return workflowModel.ProgressState{Phase: phase.Load().(workflowModel.Phase)}, nil
		},
	}
	pool, jobSvc, store, stop, _ := newTestPool(t, orch, time.Minute)
	defer close(stop)
	pool.Start()
	ctx := context.Background()

	_, _ = jobSvc.Enqueue(ctx, jobModel.Job{Id: "steps", SessionId: "s", Kind: workflowModel.Story})

	waitUntil(t, func() bool {
		j, ok := store.GetJob(ctx, "steps")
		return ok && j.Status == jobModel.JobStatusRunning && j.CurrentStep == jobModel.Extraction
	})

	phase.Store(workflowModel.PhaseGenerating)
	waitUntil(t, func() bool {
		j, _ := store.GetJob(ctx, "steps")
		return j.CurrentStep == jobModel.LLMCall && j.Status == jobModel.JobStatusRunning
	})

	close(release)
	waitUntil(t, func() bool {
		j, _ := store.GetJob(ctx, "steps")
		return j.Status == jobModel.JobStatusComplete
	})
	j, _ := store.GetJob(ctx, "steps")
	if j.CurrentStep != jobModel.Complete {
		t.Errorf("step after completion is %q", j.CurrentStep)
	}
}
