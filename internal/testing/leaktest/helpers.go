// Package leaktest fails tests that leave goroutines running
package leaktest

import (
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"
)

const (
	settleTimeout = 500 * time.Millisecond
	pollInterval  = 10 * time.Millisecond
)

// Snapshot records the goroutines alive at a point in a test
type Snapshot struct {
	t      testing.TB
	before map[string]bool
}

// Take records the goroutines running now. Call Verify once the code under
// test should have stopped everything it started.
func Take(t testing.TB) *Snapshot {
	t.Helper()
	runtime.Gosched()
	time.Sleep(pollInterval)
	return &Snapshot{t: t, before: goroutineIDs(stacks())}
}

// Verify fails the test when, after a short grace period, more than
// tolerance goroutines started since Take are still running. The report
// names the first frame of each straggler.
func (s *Snapshot) Verify(tolerance int) {
	s.t.Helper()

	var extra []string
	deadline := time.Now().Add(settleTimeout)
	for {
		extra = s.newSince()
		if len(extra) <= tolerance || time.Now().After(deadline) {
			break
		}
		time.Sleep(pollInterval)
	}
	if len(extra) > tolerance {
		s.t.Errorf("%d goroutine(s) leaked (tolerance %d):\n%s", len(extra), tolerance, strings.Join(extra, "\n"))
	}
}

// CheckNoGoroutineLeak runs fn and fails t if goroutines started by fn outlive it
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()
	snap := Take(t)
	fn()
	snap.Verify(0)
}

func (s *Snapshot) newSince() []string {
	var out []string
	for _, g := range stacks() {
		id := goroutineID(g)
		if s.before[id] {
			continue
		}
		out = append(out, summarize(g))
	}
	sort.Strings(out)
	return out
}

// stacks returns one trace per goroutine, excluding the caller's
func stacks() []string {
	buf := make([]byte, 1<<16)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	// The first block is the calling goroutine
	blocks := strings.Split(string(buf), "\n\n")
	if len(blocks) > 0 {
		blocks = blocks[1:]
	}
	return blocks
}

func goroutineIDs(traces []string) map[string]bool {
	ids := make(map[string]bool, len(traces))
	for _, g := range traces {
		ids[goroutineID(g)] = true
	}
	return ids
}

// goroutineID extracts N from a "goroutine N [state]:" header
func goroutineID(trace string) string {
	header, _, _ := strings.Cut(trace, "\n")
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return header
	}
	return fields[1]
}

// summarize keeps the header and the innermost function of a trace
func summarize(trace string) string {
	lines := strings.SplitN(strings.TrimSpace(trace), "\n", 3)
	if len(lines) < 2 {
		return lines[0]
	}
	return lines[0] + " " + strings.TrimSpace(lines[1])
}
