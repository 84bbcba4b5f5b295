package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/osse101/playcredits/internal/logger"
)

// Job is a unit of background work run by a Pool
type Job interface {
	Process(ctx context.Context) error
}

// PoolName tags the pool's log records
const PoolName = "worker_pool"

// Pool runs queued jobs on a fixed set of goroutines. Jobs receive a context
// that is cancelled by Stop. A panicking job is logged and does not take its
// goroutine down.
type Pool struct {
	size  int
	queue chan Job

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewPool creates a pool of size goroutines (at least one) and a queue of
// queueSize pending jobs. Nothing runs until Start.
func NewPool(size int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:    max(size, 1),
		queue:   make(chan Job, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

func (p *Pool) Start() {
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.loop()
	}
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopped:
			return
		case job := <-p.queue:
			p.run(job)
		}
	}
}

func (p *Pool) run(job Job) {
	log := logger.Component(PoolName)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgWorkerJobPanicked, "job", jobName(job), "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if err := job.Process(p.ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "job", jobName(job), "duration", time.Since(start), "error", err)
	}
}

// Enqueue waits for queue space. It returns false if the pool stops first.
func (p *Pool) Enqueue(job Job) bool {
	if p.isStopped() {
		logger.Component(PoolName).Warn(LogMsgWorkerJobRejected, "job", jobName(job))
		return false
	}
	select {
	case p.queue <- job:
		return true
	case <-p.stopped:
		logger.Component(PoolName).Warn(LogMsgWorkerJobRejected, "job", jobName(job))
		return false
	}
}

// TryEnqueue queues job only if there is space right now
func (p *Pool) TryEnqueue(job Job) bool {
	if p.isStopped() {
		return false
	}
	select {
	case p.queue <- job:
		return true
	default:
		return false
	}
}

// Stop cancels running jobs and waits for the goroutines to exit. Jobs still
// queued are dropped.
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.stopped)
		p.cancel()
	})
	p.wg.Wait()
}

func (p *Pool) isStopped() bool {
	select {
	case <-p.stopped:
		return true
	default:
		return false
	}
}

func jobName(job Job) string {
	if s, ok := job.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", job)
}
