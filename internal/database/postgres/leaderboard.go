package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/repository"
)

const periodColumns = `period_id, kind, start_at, end_at, is_active, created_at, closed_at`

// rankQuery aggregates in-range sessions into one row per user. Bonuses only count
// when $3 is true. Users without an in-range session never appear.
const rankQuery = `
WITH in_range AS (
    SELECT user_id, game_id, hours, credits_earned
    FROM sessions
    WHERE played_at >= $1 AND played_at < $2
),
per_game AS (
    SELECT user_id, game_id, SUM(hours) AS hours, SUM(credits_earned) AS credits
    FROM in_range
    GROUP BY user_id, game_id
),
top_game AS (
    SELECT DISTINCT ON (user_id) user_id, game_id, hours
    FROM per_game
    ORDER BY user_id, hours DESC, game_id ASC
),
totals AS (
    SELECT user_id, SUM(credits) AS credits, SUM(hours) AS total_hours, COUNT(*) AS games_played
    FROM per_game
    GROUP BY user_id
),
bonus_totals AS (
    SELECT user_id, SUM(credits) AS credits
    FROM bonuses
    WHERE $3::boolean
    GROUP BY user_id
)
SELECT t.user_id,
       t.credits + COALESCE(b.credits, 0) AS credits,
       t.games_played,
       tg.game_id,
       g.name,
       tg.hours,
       t.total_hours
FROM totals t
JOIN top_game tg ON tg.user_id = t.user_id
JOIN games g ON g.game_id = tg.game_id
LEFT JOIN bonus_totals b ON b.user_id = t.user_id
ORDER BY t.credits + COALESCE(b.credits, 0) DESC, t.user_id COLLATE "C" ASC`

// LeaderboardRepository implements repository.Leaderboard for PostgreSQL
type LeaderboardRepository struct {
	db *pgxpool.Pool
}

// NewLeaderboardRepository creates a new LeaderboardRepository
func NewLeaderboardRepository(db *pgxpool.Pool) repository.Leaderboard {
	return &LeaderboardRepository{db: db}
}

// LeaderboardTx implements repository.LeaderboardTx
type LeaderboardTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *LeaderboardRepository) BeginTx(ctx context.Context) (repository.LeaderboardTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &LeaderboardTx{tx: tx}, nil
}

// Rank aggregates sessions played in [start, end) into a ranked list
func (r *LeaderboardRepository) Rank(ctx context.Context, kind domain.PeriodKind, start, end time.Time) ([]domain.LeaderboardEntry, error) {
	return rank(ctx, r.db, kind, start, end)
}

// GetPeriod retrieves a period by id
func (r *LeaderboardRepository) GetPeriod(ctx context.Context, periodID int64) (*domain.Period, error) {
	return getPeriod(ctx, r.db, `SELECT `+periodColumns+` FROM leaderboard_periods WHERE period_id = $1`, periodID)
}

// ListPeriods returns the most recent periods of a kind, newest first
func (r *LeaderboardRepository) ListPeriods(ctx context.Context, kind domain.PeriodKind, limit int) ([]domain.Period, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+periodColumns+`
		FROM leaderboard_periods
		WHERE kind = $1
		ORDER BY start_at DESC
		LIMIT $2`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPeriods, err)
	}
	return collectPeriods(rows, ErrMsgFailedToListPeriods)
}

// GetPlacements returns the stored snapshot of a period ordered by rank
func (r *LeaderboardRepository) GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT period_id, user_id, rank, credits, games_played, most_played_game_id,
		       most_played_game_name, most_played_hours, total_hours, recorded_at
		FROM placement_snapshots
		WHERE period_id = $1
		ORDER BY rank`, periodID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPlacements, err)
	}
	defer rows.Close()

	placements := []domain.Placement{}
	for rows.Next() {
		var (
			p                                  domain.Placement
			credits, mostPlayedHrs, totalHours pgtype.Numeric
		)
		err := rows.Scan(&p.PeriodID, &p.UserID, &p.Rank, &credits, &p.GamesPlayed, &p.MostPlayedGameID,
			&p.MostPlayedGameName, &mostPlayedHrs, &totalHours, &p.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPlacements, err)
		}
		p.Credits = fromNumeric(credits)
		p.MostPlayedHours = fromNumeric(mostPlayedHrs)
		p.TotalHours = fromNumeric(totalHours)
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPlacements, err)
	}
	return placements, nil
}

// Commit commits the transaction
func (t *LeaderboardTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *LeaderboardTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Rank aggregates inside the transaction so the snapshot sees a consistent view
func (t *LeaderboardTx) Rank(ctx context.Context, kind domain.PeriodKind, start, end time.Time) ([]domain.LeaderboardEntry, error) {
	return rank(ctx, t.tx, kind, start, end)
}

// UpsertPeriod returns the period with these exact boundaries, creating it active if missing.
// The no-op update makes RETURNING yield the existing row on conflict.
func (t *LeaderboardTx) UpsertPeriod(ctx context.Context, kind domain.PeriodKind, start, end time.Time) (*domain.Period, error) {
	p, err := scanPeriod(t.tx.QueryRow(ctx, `
		INSERT INTO leaderboard_periods (kind, start_at, end_at, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (kind, start_at, end_at) DO UPDATE SET kind = EXCLUDED.kind
		RETURNING `+periodColumns,
		string(kind), start, end,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpsertPeriod, err)
	}
	return p, nil
}

// CloseEndedPeriods deactivates every other active period of the kind that has ended by now
func (t *LeaderboardTx) CloseEndedPeriods(ctx context.Context, kind domain.PeriodKind, keepID int64, now time.Time) ([]domain.Period, error) {
	rows, err := t.tx.Query(ctx, `
		UPDATE leaderboard_periods
		SET is_active = FALSE, closed_at = $3
		WHERE kind = $1 AND is_active AND period_id <> $2 AND end_at <= $3
		RETURNING `+periodColumns,
		string(kind), keepID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClosePeriods, err)
	}
	return collectPeriods(rows, ErrMsgFailedToClosePeriods)
}

// LockKind takes a transaction-scoped advisory lock on the period kind
func (t *LeaderboardTx) LockKind(ctx context.Context, kind domain.PeriodKind) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('leaderboard_period:' || $1::text, 0))`, string(kind)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLockKind, err)
	}
	return nil
}

// GetPeriodForUpdate locks the period row until the transaction ends
func (t *LeaderboardTx) GetPeriodForUpdate(ctx context.Context, periodID int64) (*domain.Period, error) {
	return getPeriod(ctx, t.tx, `SELECT `+periodColumns+` FROM leaderboard_periods WHERE period_id = $1 FOR UPDATE`, periodID)
}

// LatestClosedPeriod returns the inactive period of the kind with the greatest end, or nil if none
func (t *LeaderboardTx) LatestClosedPeriod(ctx context.Context, kind domain.PeriodKind) (*domain.Period, error) {
	p, err := scanPeriod(t.tx.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM leaderboard_periods
		WHERE kind = $1 AND NOT is_active
		ORDER BY end_at DESC
		LIMIT 1`, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLatestClosed, err)
	}
	return p, nil
}

// ReplacePlacements swaps the period's stored snapshot for entries ranked 1..n
func (t *LeaderboardTx) ReplacePlacements(ctx context.Context, periodID int64, entries []domain.LeaderboardEntry, recordedAt time.Time) (int, error) {
	if _, err := t.tx.Exec(ctx, `DELETE FROM placement_snapshots WHERE period_id = $1`, periodID); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeletePlacements, err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	copied, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{TablePlacementSnapshots},
		[]string{
			"period_id", "user_id", "rank", "credits", "games_played", "most_played_game_id",
			"most_played_game_name", "most_played_hours", "total_hours", "recorded_at",
		},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{
				periodID,
				e.UserID,
				int32(i + 1),
				toNumeric(e.Credits),
				int32(e.GamesPlayed),
				e.MostPlayedGameID,
				e.MostPlayedGameName,
				toNumeric(e.MostPlayedHours),
				toNumeric(e.TotalHours),
				recordedAt,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCopyPlacements, err)
	}
	return int(copied), nil
}

func rank(ctx context.Context, q dbtx, kind domain.PeriodKind, start, end time.Time) ([]domain.LeaderboardEntry, error) {
	rows, err := q.Query(ctx, rankQuery, start, end, kind.IncludesBonuses())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToRank, err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			e                                domain.LeaderboardEntry
			credits, mostPlayedHrs, totalHrs pgtype.Numeric
			gamesPlayed                      int64
		)
		if err := rows.Scan(&e.UserID, &credits, &gamesPlayed, &e.MostPlayedGameID, &e.MostPlayedGameName, &mostPlayedHrs, &totalHrs); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanEntry, err)
		}
		e.Credits = fromNumeric(credits)
		e.GamesPlayed = int(gamesPlayed)
		e.MostPlayedHours = fromNumeric(mostPlayedHrs)
		e.TotalHours = fromNumeric(totalHrs)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToRank, err)
	}
	return entries, nil
}

func getPeriod(ctx context.Context, q dbtx, sql string, periodID int64) (*domain.Period, error) {
	p, err := scanPeriod(q.QueryRow(ctx, sql, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrPeriodNotFound, periodID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPeriod, err)
	}
	return p, nil
}

func scanPeriod(row pgx.Row) (*domain.Period, error) {
	var (
		p    domain.Period
		kind string
	)
	if err := row.Scan(&p.ID, &kind, &p.StartAt, &p.EndAt, &p.IsActive, &p.CreatedAt, &p.ClosedAt); err != nil {
		return nil, err
	}
	p.Kind = domain.PeriodKind(kind)
	return &p, nil
}

func collectPeriods(rows pgx.Rows, errMsg string) ([]domain.Period, error) {
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errMsg, err)
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return periods, nil
}
