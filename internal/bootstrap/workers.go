package bootstrap

import (
	"github.com/osse101/playcredits/internal/config"
	"github.com/osse101/playcredits/internal/leaderboard"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/period"
	"github.com/osse101/playcredits/internal/scheduler"
	"github.com/osse101/playcredits/internal/worker"
)

// Workers holds the background components started by StartWorkers
type Workers struct {
	Rollover  *worker.PeriodRolloverWorker
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// StartWorkers starts the period rollover worker and the periodic refresh of
// active snapshots. The rollover worker's catch-up pass runs before it returns.
func StartWorkers(cfg *config.Config, lb leaderboard.Service, calendar *period.Calendar) *Workers {
	rollover := worker.NewPeriodRolloverWorker(lb, calendar)
	rollover.Start()

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerCount*WorkerQueueMultiplier)
	pool.Start()

	sched := scheduler.New(pool)
	if cfg.SnapshotRefreshInterval > 0 {
		sched.Schedule(JobNameSnapshotRefresh, cfg.SnapshotRefreshInterval, worker.NewSnapshotRefreshJob(lb), true)
	}

	logger.Info(LogMsgWorkersStarted,
		"worker_count", cfg.WorkerCount,
		"snapshot_refresh_interval", cfg.SnapshotRefreshInterval)

	return &Workers{Rollover: rollover, Pool: pool, Scheduler: sched}
}
