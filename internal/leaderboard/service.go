package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/playcredits/internal/concurrency"
	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/period"
	"github.com/osse101/playcredits/internal/repository"
)

// Service defines leaderboard queries, period lifecycle and history snapshots
type Service interface {
	// RequestLeaderboard ranks the period of the given kind containing at (now when nil)
	RequestLeaderboard(ctx context.Context, kind domain.PeriodKind, at *time.Time, limit int) (*domain.Leaderboard, error)

	GetOrCreateCurrent(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.Period, error)
	RollForward(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.Period, []domain.Period, error)
	GetPeriod(ctx context.Context, periodID int64) (*domain.Period, error)
	ListPeriods(ctx context.Context, kind domain.PeriodKind, limit int) ([]domain.Period, error)
	GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error)

	// Record rewrites a period's history from raw sessions. Guarded periods are skipped, not failed.
	Record(ctx context.Context, periodID int64) (*domain.SnapshotResult, error)
	// CloseAndSnapshot rolls the kind forward and records its most recently closed period
	CloseAndSnapshot(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.SnapshotResult, error)
	// RefreshActive records the current period of every kind
	RefreshActive(ctx context.Context, now time.Time) ([]domain.SnapshotResult, error)
	// Diff compares a period's stored history with a fresh ranking without changing anything
	Diff(ctx context.Context, periodID int64) (*domain.SnapshotDiff, error)
}

type service struct {
	repo      repository.Leaderboard
	calendar  *period.Calendar
	locks     *concurrency.LockManager
	publisher event.Publisher
	now       func() time.Time
}

// NewService creates a new leaderboard service
func NewService(repo repository.Leaderboard, calendar *period.Calendar, locks *concurrency.LockManager, publisher event.Publisher) Service {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{
		repo:      repo,
		calendar:  calendar,
		locks:     locks,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) RequestLeaderboard(ctx context.Context, kind domain.PeriodKind, at *time.Time, limit int) (*domain.Leaderboard, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPeriodKind, kind)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	when := s.now()
	if at != nil {
		when = *at
	}
	start, end, err := s.calendar.Boundaries(when, kind)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Rank(ctx, kind, start, end)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRankFailed, kind, err)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	assignRanks(entries)

	logger.FromContext(ctx).Debug(LogMsgLeaderboardComputed, "kind", kind, "start", start, "end", end, "entries", len(entries))

	return &domain.Leaderboard{
		Kind:    kind,
		StartAt: start,
		EndAt:   end,
		Entries: entries,
	}, nil
}

func (s *service) GetPeriod(ctx context.Context, periodID int64) (*domain.Period, error) {
	return s.repo.GetPeriod(ctx, periodID)
}

func (s *service) ListPeriods(ctx context.Context, kind domain.PeriodKind, limit int) ([]domain.Period, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPeriodKind, kind)
	}
	if limit <= 0 {
		limit = DefaultPeriodListLimit
	}
	if limit > MaxPeriodListLimit {
		limit = MaxPeriodListLimit
	}
	periods, err := s.repo.ListPeriods(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListPeriodsFailed, kind, err)
	}
	return periods, nil
}

// GetPlacements returns a period's stored history ordered by rank
func (s *service) GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error) {
	if _, err := s.repo.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	placements, err := s.repo.GetPlacements(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPlacementsFailed, periodID, err)
	}
	return placements, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}

// assignRanks numbers entries 1..n in their existing order
func assignRanks(entries []domain.LeaderboardEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
