package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/logger"
)

// ActiveRefresher records the current period of every kind
type ActiveRefresher interface {
	RefreshActive(ctx context.Context, now time.Time) ([]domain.SnapshotResult, error)
}

// SnapshotRefreshJob keeps the active periods' stored history current between rollovers
type SnapshotRefreshJob struct {
	refresher ActiveRefresher
	now       func() time.Time
}

// NewSnapshotRefreshJob creates a new SnapshotRefreshJob
func NewSnapshotRefreshJob(refresher ActiveRefresher) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{refresher: refresher, now: time.Now}
}

func (j *SnapshotRefreshJob) String() string { return "snapshot_refresh" }

// Process implements Job
func (j *SnapshotRefreshJob) Process(ctx context.Context) error {
	results, err := j.refresher.RefreshActive(ctx, j.now())
	if err != nil {
		return fmt.Errorf(ErrMsgRefreshFailed, err)
	}

	placements := 0
	for _, r := range results {
		placements += r.Placements
	}
	logger.FromContext(ctx).Info(LogMsgSnapshotRefreshCompleted, "periods", len(results), "placements", placements)
	return nil
}
