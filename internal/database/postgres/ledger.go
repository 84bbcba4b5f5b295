package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/repository"
)

const sessionColumns = `session_id, user_id, game_id, hours, credits_earned, played_at, created_at`

// LedgerRepository implements repository.Ledger for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) repository.Ledger {
	return &LedgerRepository{db: db}
}

// LedgerTx implements repository.LedgerTx
type LedgerTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &LedgerTx{tx: tx}, nil
}

// GetBalance returns the stored balance, or a zero balance for a user with no history
func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	var (
		balance domain.UserBalance
		total   pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, `
		SELECT user_id, total_credits, updated_at
		FROM user_balances
		WHERE user_id = $1`, userID,
	).Scan(&balance.UserID, &total, &balance.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.UserBalance{UserID: userID, TotalCredits: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	balance.TotalCredits = fromNumeric(total)
	return &balance, nil
}

// ListSessions returns a user's most recent sessions, newest first
func (r *LedgerRepository) ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = $1
		ORDER BY session_id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListSessions, err)
	}
	return collectSessions(rows)
}

// ListGameIDs returns the id of every game
func (r *LedgerRepository) ListGameIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT game_id FROM games ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGameIDs, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGameIDs, err)
	}
	return ids, nil
}

// Commit commits the transaction
func (t *LedgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *LedgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// LockUserGame takes a transaction-scoped advisory lock on the (user, game) pair
func (t *LedgerTx) LockUserGame(ctx context.Context, userID string, gameID int64) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, $2::bigint))`, userID, gameID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLockUserGame, err)
	}
	return nil
}

// GetGame reads the game inside the transaction
func (t *LedgerTx) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	return getGame(ctx, t.tx, gameID)
}

// GetPriorHours sums the hours of every session the user has already logged on the game
func (t *LedgerTx) GetPriorHours(ctx context.Context, userID string, gameID int64) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := t.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(hours), 0)
		FROM sessions
		WHERE user_id = $1 AND game_id = $2`, userID, gameID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", ErrMsgFailedToSumPriorHours, err)
	}
	return fromNumeric(sum), nil
}

// InsertSession appends a session and fills in its id and creation time
func (t *LedgerTx) InsertSession(ctx context.Context, session *domain.Session) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO sessions (user_id, game_id, hours, credits_earned, played_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING session_id, created_at`,
		session.UserID, session.GameID, toNumeric(session.Hours), toNumeric(session.CreditsEarned), session.PlayedAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertSession, err)
	}
	return nil
}

// InsertBonus records a bonus and fills in its id
func (t *LedgerTx) InsertBonus(ctx context.Context, bonus *domain.Bonus) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO bonuses (user_id, credits, reason, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING bonus_id, granted_at`,
		bonus.UserID, toNumeric(bonus.Credits), bonus.Reason, bonus.GrantedBy, bonus.GrantedAt,
	).Scan(&bonus.ID, &bonus.GrantedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertBonus, err)
	}
	return nil
}

// RefreshBalance recomputes the user's balance from sessions and bonuses and stores it
func (t *LedgerTx) RefreshBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	var (
		balance domain.UserBalance
		total   pgtype.Numeric
	)
	err := t.tx.QueryRow(ctx, `
		INSERT INTO user_balances (user_id, total_credits, updated_at)
		SELECT $1::text,
		       COALESCE((SELECT SUM(credits_earned) FROM sessions WHERE user_id = $1), 0)
		     + COALESCE((SELECT SUM(credits) FROM bonuses WHERE user_id = $1), 0),
		       NOW()
		ON CONFLICT (user_id) DO UPDATE
		SET total_credits = EXCLUDED.total_credits, updated_at = EXCLUDED.updated_at
		RETURNING user_id, total_credits, updated_at`, userID,
	).Scan(&balance.UserID, &total, &balance.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToRefreshBalance, err)
	}
	balance.TotalCredits = fromNumeric(total)
	return &balance, nil
}

// ListGameSessionsForUpdate locks and returns every session of the game in replay order
func (t *LedgerTx) ListGameSessionsForUpdate(ctx context.Context, gameID int64) ([]domain.Session, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE game_id = $1
		ORDER BY user_id, session_id
		FOR UPDATE`, gameID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLockGameSessions, err)
	}
	return collectSessions(rows)
}

// UpdateSessionCredits rewrites a session's earned credits
func (t *LedgerTx) UpdateSessionCredits(ctx context.Context, sessionID int64, credits decimal.Decimal) error {
	if _, err := t.tx.Exec(ctx, `UPDATE sessions SET credits_earned = $2 WHERE session_id = $1`, sessionID, toNumeric(credits)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateSession, err)
	}
	return nil
}

func collectSessions(rows pgx.Rows) ([]domain.Session, error) {
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		var (
			s              domain.Session
			hours, credits pgtype.Numeric
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.GameID, &hours, &credits, &s.PlayedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanSession, err)
		}
		s.Hours = fromNumeric(hours)
		s.CreditsEarned = fromNumeric(credits)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanSession, err)
	}
	return sessions, nil
}
