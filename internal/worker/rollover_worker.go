package worker

import (
	"context"
	"time"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/period"
)

// PeriodCloser closes the ended periods of a kind and records the latest one
type PeriodCloser interface {
	CloseAndSnapshot(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.SnapshotResult, error)
}

// PeriodRolloverWorker closes weekly and monthly periods at their calendar
// boundaries and records their final history
type PeriodRolloverWorker struct {
	timers   timerGroup
	closer   PeriodCloser
	calendar *period.Calendar
	kinds    []domain.PeriodKind
	now      func() time.Time
}

// NewPeriodRolloverWorker creates a worker for the weekly and monthly kinds
func NewPeriodRolloverWorker(closer PeriodCloser, calendar *period.Calendar) *PeriodRolloverWorker {
	w := &PeriodRolloverWorker{
		closer:   closer,
		calendar: calendar,
		kinds:    []domain.PeriodKind{domain.PeriodWeekly, domain.PeriodMonthly},
		now:      time.Now,
	}
	return w
}

// Start closes anything that ended while the service was down, then schedules
// each kind's next boundary
func (w *PeriodRolloverWorker) Start() {
	logger.Component(RolloverWorkerName).Info(LogMsgRolloverCatchUp, "kinds", w.kinds)
	for _, kind := range w.kinds {
		w.run(kind)
		w.scheduleNext(kind)
	}
}

func (w *PeriodRolloverWorker) scheduleNext(kind domain.PeriodKind) {
	log := logger.Component(RolloverWorkerName)

	now := w.now()
	boundary, err := w.calendar.Next(now, kind)
	if err != nil {
		log.Error(LogMsgRolloverScheduleFailed, "kind", kind, "error", err)
		return
	}

	wait := boundary.Sub(now)
	if wait > RolloverMaxWait {
		wait = RolloverMaxWait
	}
	if !w.timers.arm(string(kind), wait, func() { w.fire(kind, boundary) }) {
		return
	}
	log.Info(LogMsgRolloverScheduled, "kind", kind, "boundary", boundary, "wait", wait.String())
}

// fire runs when a timer expires. Capped waits and early wakeups land before
// the boundary and only reschedule.
func (w *PeriodRolloverWorker) fire(kind domain.PeriodKind, boundary time.Time) {
	if w.now().Before(boundary) {
		logger.Component(RolloverWorkerName).Debug(LogMsgRolloverEarlyTrigger, "kind", kind, "boundary", boundary)
		w.scheduleNext(kind)
		return
	}
	w.run(kind)
	w.scheduleNext(kind)
}

func (w *PeriodRolloverWorker) run(kind domain.PeriodKind) {
	if !w.timers.enter() {
		return
	}
	defer w.timers.leave()

	ctx, cancel := context.WithTimeout(context.Background(), RolloverJobTimeout)
	defer cancel()
	log := logger.FromContext(ctx).With(logger.AttrKeyComponent, RolloverWorkerName)

	log.Info(LogMsgRolloverStarting, "kind", kind)
	res, err := w.closer.CloseAndSnapshot(ctx, kind, w.now())
	if err != nil {
		log.Error(LogMsgRolloverFailed, "kind", kind, "error", err)
		return
	}
	if res.Skipped {
		log.Info(LogMsgRolloverSkipped, "kind", kind, "reason", res.Reason)
		return
	}
	log.Info(LogMsgRolloverCompleted, "kind", kind, "period_id", res.Period.ID, "placements", res.Placements)
}

// Shutdown cancels pending timers and waits for an in-flight rollover to finish
func (w *PeriodRolloverWorker) Shutdown(ctx context.Context) error {
	return w.timers.stop(ctx, RolloverWorkerName)
}
