package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/playcredits/internal/testing/leaktest"
)

type countingJob struct {
	executed *int32
	err      error
}

func (j *countingJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return j.err
}

// blockingJob waits for its context to be cancelled
type blockingJob struct {
	started chan struct{}
}

func (j *blockingJob) Process(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestPool(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		var executed int32
		pool := NewPool(2, 10)
		pool.Start()

		assert.True(t, pool.Enqueue(&countingJob{executed: &executed}))
		assert.True(t, pool.Enqueue(&countingJob{executed: &executed, err: errors.New("boom")}))

		require.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 2 }, time.Second, 5*time.Millisecond)
		pool.Stop()
	})
}

func TestPool_StopCancelsInFlightJobs(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := NewPool(1, 1)
		pool.Start()

		job := &blockingJob{started: make(chan struct{})}
		require.True(t, pool.Enqueue(job))
		<-job.started

		stopped := make(chan struct{})
		go func() {
			pool.Stop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("Stop did not cancel the running job")
		}
	})
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	var executed int32
	pool := NewPool(1, 1)
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.False(t, pool.Enqueue(&countingJob{executed: &executed}))
	assert.False(t, pool.TryEnqueue(&countingJob{executed: &executed}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&executed))
}

func TestPool_TryEnqueueFullQueue(t *testing.T) {
	var executed int32
	// Not started, so nothing drains the queue
	pool := NewPool(1, 1)

	assert.True(t, pool.TryEnqueue(&countingJob{executed: &executed}))
	assert.False(t, pool.TryEnqueue(&countingJob{executed: &executed}))
	pool.Stop()
}

type panickingJob struct{}

func (panickingJob) Process(context.Context) error { panic("job exploded") }

func TestPool_SurvivesPanickingJob(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		var executed int32
		pool := NewPool(1, 4)
		pool.Start()

		require.True(t, pool.Enqueue(panickingJob{}))
		require.True(t, pool.Enqueue(&countingJob{executed: &executed}))

		require.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 1 }, time.Second, 5*time.Millisecond)
		pool.Stop()
	})
}

func TestJobName(t *testing.T) {
	assert.Equal(t, "snapshot_refresh", jobName(NewSnapshotRefreshJob(nil)))
	assert.Equal(t, "worker.panickingJob", jobName(panickingJob{}))
}
