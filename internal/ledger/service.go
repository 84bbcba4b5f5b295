package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/accrual"
	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/period"
	"github.com/osse101/playcredits/internal/repository"
)

// LogSessionRequest is the input to LogSession. A zero PlayedAt means now.
type LogSessionRequest struct {
	UserID   string
	GameID   int64
	Hours    decimal.Decimal
	PlayedAt time.Time
}

// GrantBonusRequest is the input to GrantBonus. Negative credits are adjustments.
type GrantBonusRequest struct {
	UserID    string
	Credits   decimal.Decimal
	Reason    string
	GrantedBy string
}

// Service defines the session ledger operations
type Service interface {
	LogSession(ctx context.Context, req LogSessionRequest) (*domain.SessionResult, error)
	GrantBonus(ctx context.Context, req GrantBonusRequest) (*domain.Bonus, *domain.UserBalance, error)
	GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error)
	RefreshBalance(ctx context.Context, userID string) (*domain.UserBalance, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error)
	RecalculateGame(ctx context.Context, gameID int64) (*domain.RecalculationReport, error)
	RecalculateAll(ctx context.Context) ([]domain.RecalculationReport, error)
}

type service struct {
	repo      repository.Ledger
	publisher event.Publisher
	now       func() time.Time
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger, publisher event.Publisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// LogSession computes the session's credits from the user's prior hours on the
// game and stores the session and refreshed balance in one transaction
func (s *service) LogSession(ctx context.Context, req LogSessionRequest) (*domain.SessionResult, error) {
	log := logger.FromContext(ctx)

	userID, err := validateUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	if req.GameID <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgGameIDRequired)
	}
	if !req.Hours.IsPositive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgHoursNotPositive)
	}
	now := s.now()
	playedAt := req.PlayedAt
	if playedAt.IsZero() {
		playedAt = now
	}
	if !period.Contains(period.AllTimeStart, period.AllTimeEnd, playedAt) {
		return nil, fmt.Errorf("%w: "+ErrMsgPlayedAtOutOfRange, domain.ErrInvalidInput, playedAt.Format(time.RFC3339))
	}
	if playedAt.After(now.Add(MaxFutureSkew)) {
		return nil, fmt.Errorf("%w: "+ErrMsgPlayedAtInFuture, domain.ErrInvalidInput, playedAt.Format(time.RFC3339))
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockUserGame(ctx, userID, req.GameID); err != nil {
		return nil, fmt.Errorf(ErrMsgLockFailed, err)
	}

	game, err := tx.GetGame(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownGame) {
			log.Warn(LogMsgSessionRejected, "user_id", userID, "game_id", req.GameID, "error", err)
			return nil, fmt.Errorf("%w: %d", domain.ErrUnknownGame, req.GameID)
		}
		return nil, err
	}

	prior, err := tx.GetPriorHours(ctx, userID, game.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPriorHoursFailed, err)
	}

	session := &domain.Session{
		UserID:        userID,
		GameID:        game.ID,
		Hours:         req.Hours,
		CreditsEarned: accrual.Credits(req.Hours, prior, game.BaseRate, game.HalfLifeHours),
		PlayedAt:      playedAt,
	}
	if err := tx.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf(ErrMsgInsertSession, err)
	}

	balance, err := tx.RefreshBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRefreshBalance, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	result := &domain.SessionResult{
		Session:     *session,
		PriorHours:  prior,
		Balance:     *balance,
		CurrentRate: accrual.Rate(prior.Add(req.Hours), game.BaseRate, game.HalfLifeHours),
	}

	log.Info(LogMsgSessionLogged,
		"user_id", userID,
		"game_id", game.ID,
		"session_id", session.ID,
		"hours", session.Hours.String(),
		"credits", session.CreditsEarned.String(),
		"prior_hours", prior.String())

	s.publish(ctx, event.NewSessionLoggedEvent(result))
	return result, nil
}

// GrantBonus records a manual grant or adjustment and refreshes the balance
func (s *service) GrantBonus(ctx context.Context, req GrantBonusRequest) (*domain.Bonus, *domain.UserBalance, error) {
	log := logger.FromContext(ctx)

	userID, err := validateUserID(req.UserID)
	if err != nil {
		return nil, nil, err
	}
	if req.Credits.IsZero() {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgCreditsZero)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgReasonRequired)
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return nil, nil, fmt.Errorf("%w: "+ErrMsgReasonTooLong, domain.ErrInvalidInput, MaxReasonLength)
	}
	grantedBy := strings.TrimSpace(req.GrantedBy)
	if grantedBy == "" {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgGrantorRequired)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	bonus := &domain.Bonus{
		UserID:    userID,
		Credits:   req.Credits,
		Reason:    reason,
		GrantedBy: grantedBy,
		GrantedAt: s.now(),
	}
	if err := tx.InsertBonus(ctx, bonus); err != nil {
		return nil, nil, fmt.Errorf(ErrMsgInsertBonus, err)
	}

	balance, err := tx.RefreshBalance(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgRefreshBalance, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	log.Info(LogMsgBonusGranted,
		"user_id", userID,
		"bonus_id", bonus.ID,
		"credits", bonus.Credits.String(),
		"granted_by", grantedBy)

	s.publish(ctx, event.NewBonusGrantedEvent(bonus, balance))
	return bonus, balance, nil
}

func (s *service) GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetBalance, err)
	}
	return balance, nil
}

// RefreshBalance recomputes the stored balance from the user's sessions and bonuses
func (s *service) RefreshBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	balance, err := tx.RefreshBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRefreshBalance, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgBalanceRefreshed, "user_id", userID, "total_credits", balance.TotalCredits.String())
	return balance, nil
}

// ListSessions returns the user's most recent sessions, newest first
func (s *service) ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSessionListLimit
	}
	if limit > MaxSessionListLimit {
		limit = MaxSessionListLimit
	}

	sessions, err := s.repo.ListSessions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListSessions, err)
	}
	return sessions, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}

func validateUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUserIDRequired)
	}
	if utf8.RuneCountInString(userID) > MaxUserIDLength {
		return "", fmt.Errorf("%w: "+ErrMsgUserIDTooLong, domain.ErrInvalidInput, MaxUserIDLength)
	}
	return userID, nil
}
