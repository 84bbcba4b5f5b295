package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/osse101/playcredits/internal/concurrency"
	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/repository"
)

// Record recomputes the period's ranking from raw sessions over its stored
// boundaries and replaces its placement rows. Calls for the same period are
// serialized in-process and by the kind and row locks in the store, and
// repeating a call produces identical rows.
func (s *service) Record(ctx context.Context, periodID int64) (*domain.SnapshotResult, error) {
	var result *domain.SnapshotResult
	err := s.locks.WithLock(ctx, concurrency.PeriodKey(periodID), func() error {
		var err error
		result, err = s.record(ctx, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.NewSnapshotEvent(result))
	return result, nil
}

func (s *service) record(ctx context.Context, periodID int64) (*domain.SnapshotResult, error) {
	log := logger.FromContext(ctx)

	// kind never changes, so it is safe to read before locking
	known, err := s.repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Kind lock before row lock, the same order RollForward uses
	if err := tx.LockKind(ctx, known.Kind); err != nil {
		return nil, fmt.Errorf(ErrMsgLockKindFailed, known.Kind, err)
	}

	p, err := tx.GetPeriodForUpdate(ctx, periodID)
	if err != nil {
		return nil, err
	}

	allowed, err := snapshotAllowed(ctx, tx, p)
	if err != nil {
		return nil, err
	}
	if !allowed {
		log.Warn(LogMsgSnapshotSkipped, "period", p.String(), "reason", domain.SnapshotReasonStale)
		return &domain.SnapshotResult{
			Period:  *p,
			Skipped: true,
			Reason:  domain.SnapshotReasonStale,
		}, nil
	}

	if err := s.calendar.Verify(p.Kind, p.StartAt, p.EndAt); err != nil {
		log.Error(LogMsgBoundaryCorrupt, "period", p.String(), "error", err)
		return nil, err
	}

	entries, err := tx.Rank(ctx, p.Kind, p.StartAt, p.EndAt)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRankFailed, p.Kind, err)
	}

	n, err := tx.ReplacePlacements(ctx, p.ID, entries, s.now())
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReplaceFailed, p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	log.Info(LogMsgSnapshotRecorded, "period", p.String(), "placements", n)
	return &domain.SnapshotResult{Period: *p, Placements: n}, nil
}

// CloseAndSnapshot rolls the kind forward at now and records the most recently
// closed period. All-time never closes, so its active period is recorded instead.
// When nothing has closed yet the result is skipped with SnapshotReasonNothingClosed.
func (s *service) CloseAndSnapshot(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.SnapshotResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPeriodKind, kind)
	}

	current, _, err := s.RollForward(ctx, kind, now)
	if err != nil {
		return nil, err
	}
	if kind == domain.PeriodAllTime {
		return s.Record(ctx, current.ID)
	}

	latest, err := s.latestClosed(ctx, kind)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		logger.FromContext(ctx).Info(LogMsgNothingClosed, "kind", kind)
		return &domain.SnapshotResult{
			Period:  *current,
			Skipped: true,
			Reason:  domain.SnapshotReasonNothingClosed,
		}, nil
	}
	return s.Record(ctx, latest.ID)
}

func (s *service) latestClosed(ctx context.Context, kind domain.PeriodKind) (*domain.Period, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	latest, err := tx.LatestClosedPeriod(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLatestClosedFailed, kind, err)
	}
	return latest, nil
}

// RefreshActive records the current period of every kind. A failure for one
// kind does not stop the others; all failures are returned together.
func (s *service) RefreshActive(ctx context.Context, now time.Time) ([]domain.SnapshotResult, error) {
	log := logger.FromContext(ctx)

	var (
		results []domain.SnapshotResult
		errs    []error
	)
	for _, kind := range domain.PeriodKinds {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		current, err := s.GetOrCreateCurrent(ctx, kind, now)
		if err == nil {
			var res *domain.SnapshotResult
			if res, err = s.Record(ctx, current.ID); err == nil {
				results = append(results, *res)
				continue
			}
		}
		log.Error(LogMsgRefreshFailed, "kind", kind, "error", err)
		errs = append(errs, fmt.Errorf(ErrMsgRefreshKindFailed, kind, err))
	}
	return results, errors.Join(errs...)
}

// Diff compares a period's stored placements with a fresh ranking over its stored boundaries
func (s *service) Diff(ctx context.Context, periodID int64) (*domain.SnapshotDiff, error) {
	p, err := s.repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.GetPlacements(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPlacementsFailed, periodID, err)
	}
	fresh, err := s.repo.Rank(ctx, p.Kind, p.StartAt, p.EndAt)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRankFailed, p.Kind, err)
	}
	assignRanks(fresh)

	diff := &domain.SnapshotDiff{
		Period:     *p,
		Stored:     len(stored),
		Fresh:      len(fresh),
		Mismatches: compareRankings(stored, fresh),
	}
	if !diff.Clean() {
		logger.FromContext(ctx).Warn(LogMsgDiffMismatch, "period", p.String(), "mismatches", len(diff.Mismatches))
	}
	return diff, nil
}

// compareRankings lists every user whose stored row is missing or differs from the fresh one.
// The result is ordered by user id.
func compareRankings(stored []domain.Placement, fresh []domain.LeaderboardEntry) []domain.PlacementMismatch {
	byUser := make(map[string]domain.LeaderboardEntry, len(stored))
	for _, p := range stored {
		byUser[p.UserID] = p.LeaderboardEntry
	}

	mismatches := []domain.PlacementMismatch{}
	seen := make(map[string]struct{}, len(fresh))
	for i := range fresh {
		f := fresh[i]
		seen[f.UserID] = struct{}{}

		st, ok := byUser[f.UserID]
		if !ok {
			mismatches = append(mismatches, domain.PlacementMismatch{UserID: f.UserID, Kind: domain.MismatchMissingFromSnapshot, Fresh: &f})
			continue
		}
		if kind := entryMismatch(st, f); kind != "" {
			mismatches = append(mismatches, domain.PlacementMismatch{UserID: f.UserID, Kind: kind, Stored: &st, Fresh: &f})
		}
	}
	for _, p := range stored {
		if _, ok := seen[p.UserID]; !ok {
			st := p.LeaderboardEntry
			mismatches = append(mismatches, domain.PlacementMismatch{UserID: p.UserID, Kind: domain.MismatchMissingFromRanking, Stored: &st})
		}
	}

	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].UserID < mismatches[j].UserID })
	return mismatches
}

// entryMismatch returns the first field group that differs, or "" when equal
func entryMismatch(stored, fresh domain.LeaderboardEntry) string {
	switch {
	case stored.Rank != fresh.Rank:
		return domain.MismatchRank
	case !stored.Credits.Equal(fresh.Credits):
		return domain.MismatchCredits
	case !stored.TotalHours.Equal(fresh.TotalHours) || !stored.MostPlayedHours.Equal(fresh.MostPlayedHours):
		return domain.MismatchHours
	case stored.GamesPlayed != fresh.GamesPlayed || stored.MostPlayedGameID != fresh.MostPlayedGameID:
		return domain.MismatchGames
	}
	return ""
}
