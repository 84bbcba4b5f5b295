package repository

import (
	"context"
	"time"

	"github.com/osse101/playcredits/internal/domain"
)

// Ranker aggregates sessions into a ranked list for explicit boundaries
type Ranker interface {
	Rank(ctx context.Context, kind domain.PeriodKind, start, end time.Time) ([]domain.LeaderboardEntry, error)
}

// Leaderboard defines the interface for period and placement persistence
type Leaderboard interface {
	Ranker

	BeginTx(ctx context.Context) (LeaderboardTx, error)

	GetPeriod(ctx context.Context, periodID int64) (*domain.Period, error)
	ListPeriods(ctx context.Context, kind domain.PeriodKind, limit int) ([]domain.Period, error)
	GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error)
}

// LeaderboardTx defines period lifecycle and snapshot operations that must share one transaction
type LeaderboardTx interface {
	Tx
	Ranker

	// UpsertPeriod returns the period with exactly these boundaries, creating it active if missing
	UpsertPeriod(ctx context.Context, kind domain.PeriodKind, start, end time.Time) (*domain.Period, error)
	// CloseEndedPeriods deactivates every active period of the kind, other than keepID, whose end is at or before now
	CloseEndedPeriods(ctx context.Context, kind domain.PeriodKind, keepID int64, now time.Time) ([]domain.Period, error)
	// LockKind serializes lifecycle changes and snapshot guards for one kind until the transaction ends
	LockKind(ctx context.Context, kind domain.PeriodKind) error
	// GetPeriodForUpdate locks the period row until the transaction ends
	GetPeriodForUpdate(ctx context.Context, periodID int64) (*domain.Period, error)
	// LatestClosedPeriod returns the inactive period of the kind with the greatest end, or nil
	LatestClosedPeriod(ctx context.Context, kind domain.PeriodKind) (*domain.Period, error)
	// ReplacePlacements deletes the period's rows and inserts entries ranked 1..n
	ReplacePlacements(ctx context.Context, periodID int64, entries []domain.LeaderboardEntry, recordedAt time.Time) (int, error)
}
