package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/repository"
)

// GetOrCreateCurrent returns the period of the kind containing now, creating it active if needed
func (s *service) GetOrCreateCurrent(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.Period, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	p, err := s.currentPeriod(ctx, tx, kind, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return p, nil
}

// RollForward makes sure the current period exists and closes every other active
// period of the kind that has ended. It returns the current period and the ones it closed.
func (s *service) RollForward(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.Period, []domain.Period, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockKind(ctx, kind); err != nil {
		return nil, nil, fmt.Errorf(ErrMsgLockKindFailed, kind, err)
	}

	current, err := s.currentPeriod(ctx, tx, kind, now)
	if err != nil {
		return nil, nil, err
	}

	closed, err := tx.CloseEndedPeriods(ctx, kind, current.ID, now)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgClosePeriodsFailed, kind, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	if len(closed) > 0 {
		log.Info(LogMsgPeriodsRolled, "kind", kind, "current_period_id", current.ID, "closed", len(closed))
		s.publish(ctx, event.NewPeriodRolledEvent(current, closed, now))
	}
	return current, closed, nil
}

func (s *service) currentPeriod(ctx context.Context, tx repository.LeaderboardTx, kind domain.PeriodKind, now time.Time) (*domain.Period, error) {
	start, end, err := s.calendar.Boundaries(now, kind)
	if err != nil {
		return nil, err
	}
	p, err := tx.UpsertPeriod(ctx, kind, start, end)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUpsertPeriodFailed, kind, err)
	}
	logger.FromContext(ctx).Debug(LogMsgPeriodCreated, "period", p.String())
	return p, nil
}

// snapshotAllowed reports whether a period's history may be (re)written: it must be
// active, or the most recently closed period of its kind. The caller holds the
// kind lock so no roll forward can change the answer before commit.
func snapshotAllowed(ctx context.Context, tx repository.LeaderboardTx, p *domain.Period) (bool, error) {
	if p.IsActive {
		return true, nil
	}
	latest, err := tx.LatestClosedPeriod(ctx, p.Kind)
	if err != nil {
		return false, fmt.Errorf(ErrMsgLatestClosedFailed, p.Kind, err)
	}
	return latest != nil && latest.ID == p.ID, nil
}
