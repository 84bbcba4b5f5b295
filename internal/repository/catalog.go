package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
)

// Catalog defines the interface for game catalog persistence
type Catalog interface {
	// CreateGame inserts a game; nameKey is the normalized uniqueness key
	CreateGame(ctx context.Context, game *domain.Game, nameKey string) error
	GetGame(ctx context.Context, gameID int64) (*domain.Game, error)
	GetGameByNameKey(ctx context.Context, nameKey string) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	UpdateGameRates(ctx context.Context, gameID int64, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error)
}
