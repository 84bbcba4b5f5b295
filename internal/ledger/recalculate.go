package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/accrual"
	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/repository"
)

// RecalculateGame replays every session of the game with its current rates in
// insertion order per user, rewrites credits that changed, and refreshes the
// affected balances. All of it happens in one transaction.
func (s *service) RecalculateGame(ctx context.Context, gameID int64) (*domain.RecalculationReport, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	game, err := tx.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecalcGameLookup, gameID, err)
	}

	sessions, err := tx.ListGameSessionsForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecalcLoad, gameID, err)
	}

	report := &domain.RecalculationReport{
		GameID:          gameID,
		SessionsScanned: len(sessions),
		CreditsDelta:    decimal.Zero,
	}

	changedUsers := make(map[string]struct{})
	var users []string
	var currentUser string
	prior := decimal.Zero

	for _, session := range sessions {
		if session.UserID != currentUser {
			currentUser = session.UserID
			prior = decimal.Zero
			if err := tx.LockUserGame(ctx, currentUser, gameID); err != nil {
				return nil, fmt.Errorf(ErrMsgRecalcLockFailed, currentUser, err)
			}
		}

		credits := accrual.Credits(session.Hours, prior, game.BaseRate, game.HalfLifeHours)
		prior = prior.Add(session.Hours)

		if credits.Equal(session.CreditsEarned) {
			continue
		}
		if err := tx.UpdateSessionCredits(ctx, session.ID, credits); err != nil {
			return nil, fmt.Errorf(ErrMsgRecalcUpdate, session.ID, err)
		}
		report.SessionsUpdated++
		report.CreditsDelta = report.CreditsDelta.Add(credits.Sub(session.CreditsEarned))
		if _, seen := changedUsers[session.UserID]; !seen {
			changedUsers[session.UserID] = struct{}{}
			users = append(users, session.UserID)
		}
	}

	for _, userID := range users {
		if _, err := tx.RefreshBalance(ctx, userID); err != nil {
			return nil, fmt.Errorf(ErrMsgRefreshUserFailed, userID, err)
		}
	}
	report.UsersRefreshed = len(users)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	log.Info(LogMsgRecalculationDone,
		"game_id", gameID,
		"sessions_scanned", report.SessionsScanned,
		"sessions_updated", report.SessionsUpdated,
		"users_refreshed", report.UsersRefreshed,
		"credits_delta", report.CreditsDelta.String())

	if report.SessionsUpdated > 0 {
		s.publish(ctx, event.NewCreditsRecalculatedEvent(report))
	}
	return report, nil
}

// RecalculateAll runs RecalculateGame for every game, one transaction per game.
// It stops at the first failure; games already processed stay committed.
func (s *service) RecalculateAll(ctx context.Context) ([]domain.RecalculationReport, error) {
	gameIDs, err := s.repo.ListGameIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecalcListGames, err)
	}

	reports := make([]domain.RecalculationReport, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := s.RecalculateGame(ctx, gameID)
		if err != nil {
			logger.FromContext(ctx).Error(LogMsgRecalculationFailed, "game_id", gameID, "error", err)
			return reports, fmt.Errorf(ErrMsgRecalcGameFailed, gameID, err)
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
