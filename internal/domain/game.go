package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game is a catalog entry with its accrual parameters.
// A nil HalfLifeHours means the game does not decay.
type Game struct {
	ID            int64            `json:"game_id"`
	Name          string           `json:"name"`
	BaseRate      decimal.Decimal  `json:"base_rate"`
	HalfLifeHours *decimal.Decimal `json:"half_life_hours,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Decays reports whether the game's accrual rate halves with play time
func (g *Game) Decays() bool {
	return g.HalfLifeHours != nil && g.HalfLifeHours.IsPositive()
}
