// Package concurrency provides in-process keyed mutual exclusion
package concurrency

import (
	"context"
	"strconv"
	"sync"
)

type keyLock struct {
	sem  chan struct{}
	refs int
}

// LockManager serializes work per key. A key's lock exists only while some
// caller holds or waits for it, so keys may come from an unbounded space.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

// Acquire blocks until the key is free or ctx ends. On success the caller
// must call release exactly once.
func (lm *LockManager) Acquire(ctx context.Context, key string) (release func(), err error) {
	lm.mu.Lock()
	l := lm.locks[key]
	if l == nil {
		l = &keyLock{sem: make(chan struct{}, 1)}
		lm.locks[key] = l
	}
	l.refs++
	lm.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		lm.unref(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			lm.unref(key, l)
		})
	}, nil
}

// WithLock runs fn while holding the key. fn does not run if ctx ends first.
func (lm *LockManager) WithLock(ctx context.Context, key string, fn func() error) error {
	release, err := lm.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Len reports how many keys are currently held or awaited
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

func (lm *LockManager) unref(key string, l *keyLock) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(lm.locks, key)
	}
}

// PeriodKey is the lock key used for a leaderboard period's history
func PeriodKey(periodID int64) string {
	return "period:" + strconv.FormatInt(periodID, 10)
}
