package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
)

// Ledger defines the interface for session, bonus and balance persistence
type Ledger interface {
	BeginTx(ctx context.Context) (LedgerTx, error)

	GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error)
	ListGameIDs(ctx context.Context) ([]int64, error)
}

// LedgerTx defines the operations that must share one transaction
type LedgerTx interface {
	Tx

	// LockUserGame serializes accrual for one (user, game) pair until the transaction ends
	LockUserGame(ctx context.Context, userID string, gameID int64) error
	// GetGame reads the game inside the transaction; domain.ErrUnknownGame if missing
	GetGame(ctx context.Context, gameID int64) (*domain.Game, error)
	// GetPriorHours sums the user's existing sessions on the game
	GetPriorHours(ctx context.Context, userID string, gameID int64) (decimal.Decimal, error)
	InsertSession(ctx context.Context, session *domain.Session) error
	InsertBonus(ctx context.Context, bonus *domain.Bonus) error
	// RefreshBalance recomputes the user's balance from sessions and bonuses
	RefreshBalance(ctx context.Context, userID string) (*domain.UserBalance, error)

	// ListGameSessionsForUpdate returns every session of a game ordered by (user_id, session_id)
	ListGameSessionsForUpdate(ctx context.Context, gameID int64) ([]domain.Session, error)
	UpdateSessionCredits(ctx context.Context, sessionID int64, credits decimal.Decimal) error
}
