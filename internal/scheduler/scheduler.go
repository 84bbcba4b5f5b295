// Package scheduler feeds recurring jobs into a worker pool
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/metrics"
	"github.com/osse101/playcredits/internal/worker"
)

const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgJobSkipped   = "Worker queue full, skipping scheduled run"
)

// Enqueuer accepts a job without blocking, reporting false when it cannot
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// JobStats counts the ticks of one scheduled job
type JobStats struct {
	Enqueued int64 `json:"enqueued"`
	Skipped  int64 `json:"skipped"`
}

type entry struct {
	name     string
	job      worker.Job
	enqueued atomic.Int64
	skipped  atomic.Int64
}

// Scheduler enqueues jobs at fixed intervals. A tick that finds the queue full
// is dropped, so a slow pool never accumulates a backlog of stale runs.
type Scheduler struct {
	pool     Enqueuer
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]*entry
}

func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
		jobs: make(map[string]*entry),
	}
}

// Schedule enqueues job every interval until Stop, and once immediately when
// runNow is set
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job, runNow bool) {
	e := &entry{name: name, job: job}
	s.mu.Lock()
	s.jobs[name] = e
	s.mu.Unlock()

	logger.Component("scheduler").Info(LogMsgJobScheduled, "job", name, "interval", interval.String(), "run_now", runNow)

	s.wg.Add(1)
	go s.loop(e, interval, runNow)
}

func (s *Scheduler) loop(e *entry, interval time.Duration, runNow bool) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if runNow {
		s.tick(e)
	}
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.tick(e)
		}
	}
}

func (s *Scheduler) tick(e *entry) {
	if s.pool.TryEnqueue(e.job) {
		e.enqueued.Add(1)
		metrics.ScheduledRuns.WithLabelValues(e.name, metrics.OutcomeEnqueued).Inc()
		return
	}
	e.skipped.Add(1)
	metrics.ScheduledRuns.WithLabelValues(e.name, metrics.OutcomeSkipped).Inc()
	logger.Component("scheduler").Warn(LogMsgJobSkipped, "job", e.name)
}

// Stats reports tick outcomes per job name
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]JobStats, len(s.jobs))
	for name, e := range s.jobs {
		out[name] = JobStats{Enqueued: e.enqueued.Load(), Skipped: e.skipped.Load()}
	}
	return out
}

// Stop halts every job loop and waits for them to exit. Jobs already enqueued
// are left to the pool.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
