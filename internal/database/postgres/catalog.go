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

const gameColumns = `game_id, name, base_rate, half_life_hours, created_at, updated_at`

// CatalogRepository implements repository.Catalog for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) repository.Catalog {
	return &CatalogRepository{db: db}
}

// CreateGame inserts a game and fills in its generated id and timestamps
func (r *CatalogRepository) CreateGame(ctx context.Context, game *domain.Game, nameKey string) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO games (name, name_key, base_rate, half_life_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING game_id, created_at, updated_at`,
		game.Name, nameKey, toNumeric(game.BaseRate), ptrToNumeric(game.HalfLifeHours),
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateGame, game.Name)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertGame, err)
	}
	return nil
}

// GetGame retrieves a game by id
func (r *CatalogRepository) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	return getGame(ctx, r.db, gameID)
}

// GetGameByNameKey retrieves a game by its normalized name
func (r *CatalogRepository) GetGameByNameKey(ctx context.Context, nameKey string) (*domain.Game, error) {
	game, err := scanGame(r.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE name_key = $1`, nameKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownGame
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGame, err)
	}
	return game, nil
}

// ListGames returns every game ordered by id
func (r *CatalogRepository) ListGames(ctx context.Context) ([]domain.Game, error) {
	rows, err := r.db.Query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGames, err)
	}
	defer rows.Close()

	games := []domain.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGames, err)
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGames, err)
	}
	return games, nil
}

// UpdateGameRates replaces a game's accrual parameters
func (r *CatalogRepository) UpdateGameRates(ctx context.Context, gameID int64, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error) {
	game, err := scanGame(r.db.QueryRow(ctx, `
		UPDATE games
		SET base_rate = $2, half_life_hours = $3, updated_at = NOW()
		WHERE game_id = $1
		RETURNING `+gameColumns,
		gameID, toNumeric(baseRate), ptrToNumeric(halfLife),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownGame
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRates, err)
	}
	return game, nil
}

func getGame(ctx context.Context, q dbtx, gameID int64) (*domain.Game, error) {
	game, err := scanGame(q.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = $1`, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownGame
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGame, err)
	}
	return game, nil
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var (
		game     domain.Game
		baseRate pgtype.Numeric
		halfLife pgtype.Numeric
	)
	if err := row.Scan(&game.ID, &game.Name, &baseRate, &halfLife, &game.CreatedAt, &game.UpdatedAt); err != nil {
		return nil, err
	}
	game.BaseRate = fromNumeric(baseRate)
	game.HalfLifeHours = numericToPtr(halfLife)
	return &game, nil
}
