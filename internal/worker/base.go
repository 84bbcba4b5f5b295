package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/playcredits/internal/logger"
)

// timerGroup owns keyed one-shot timers and tracks the runs they trigger, so a
// worker can stop all of them and wait for in-flight work. At most one timer
// is armed per key. The zero value is ready to use.
type timerGroup struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopping bool
	inFlight sync.WaitGroup
}

// arm replaces the timer under key with one that runs fn after d. It returns
// false once stop has begun.
func (g *timerGroup) arm(key string, d time.Duration, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopping {
		return false
	}
	if g.timers == nil {
		g.timers = make(map[string]*time.Timer)
	}
	if prev := g.timers[key]; prev != nil {
		prev.Stop()
	}
	g.timers[key] = time.AfterFunc(d, fn)
	return true
}

// enter registers a run; the caller must call leave when enter returns true
func (g *timerGroup) enter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopping {
		return false
	}
	g.inFlight.Add(1)
	return true
}

func (g *timerGroup) leave() { g.inFlight.Done() }

func (g *timerGroup) armed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// stop disarms every timer, refuses new runs and waits for running ones until
// ctx ends. Safe to call more than once.
func (g *timerGroup) stop(ctx context.Context, name string) error {
	log := logger.Component(name)

	g.mu.Lock()
	if !g.stopping {
		g.stopping = true
		log.Info(LogMsgWorkerShuttingDown)
	}
	for key, t := range g.timers {
		if t.Stop() {
			log.Info(LogMsgWorkerTimerCancelled, "timer", key)
		}
	}
	g.timers = nil
	g.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		g.inFlight.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		log.Info(LogMsgWorkerShutdownComplete)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgWorkerShutdownTimeout)
		return ctx.Err()
	}
}
