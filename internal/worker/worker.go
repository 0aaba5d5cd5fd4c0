package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/orchestrator"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// Pool runs queued workflow jobs against the orchestrator. It starts with one
// worker and grows on dispatcher signals up to MaxWorkerCount; workers above
// the minimum retire after IdleTimeout without work.
type Pool struct {
	jobs         *job.Service
	orchestrator orchestrator.Service

	stop        chan bool
	wg          *sync.WaitGroup
	count       int64
	minWorkers  int64
	maxWorkers  int64
	idleTimeout time.Duration
	logger      *logger_i.Logger
}

type PoolConfig struct {
	Jobs         *job.Service
	Orchestrator orchestrator.Service
	Stop         chan bool
	Group        *sync.WaitGroup
	IdleTimeout  time.Duration
}

func NewPool(cfg PoolConfig) *Pool {
	idle := cfg.IdleTimeout
	if idle == 0 {
		idle = config.IdleWorkerTimeout
	}
	return &Pool{
		jobs:         cfg.Jobs,
		orchestrator: cfg.Orchestrator,
		stop:         cfg.Stop,
		wg:           cfg.Group,
		minWorkers:   config.MinWorkerCount,
		maxWorkers:   config.MaxWorkerCount,
		idleTimeout:  idle,
		logger:       logger_i.NewLogger("WorkerPool"),
	}
}

func (p *Pool) Start() {
	p.logger.Info("Initializing worker pool")
	p.createWorker()
	go p.dispatcher()
}

func (p *Pool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.count)
}

func (p *Pool) dispatcher() {
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.stop:
			return
		case _, ok := <-p.jobs.DispatcherChannel:
			if !ok {
				return
			}
			if p.WorkerCount() < p.maxWorkers {
				p.logger.Info("Creating new worker", "workerCount", p.WorkerCount())
				p.createWorker()
			}
		}
	}
}

func (p *Pool) createWorker() {
	p.wg.Add(1)
	atomic.AddInt64(&p.count, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()
	for {
		select {
		case currentJob := <-p.jobs.JobChannel:
			p.executeJob(currentJob)
			metrics.DecrementJobsInQueue()
			idle.Reset(p.idleTimeout)

		case <-p.stop:
			atomic.AddInt64(&p.count, -1)
			p.removeWorker("Stop worker signal received")
			return

		case <-idle.C:
			if p.retire() {
				p.removeWorker("Idle worker timeout")
				return
			}
			idle.Reset(p.idleTimeout)
		}
	}
}

// retire claims one slot above the minimum. Only the caller that wins the CAS
// may exit, so the pool never drops below minWorkers.
func (p *Pool) retire() bool {
	for {
		current := atomic.LoadInt64(&p.count)
		if current <= p.minWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.count, current, current-1) {
			return true
		}
	}
}
