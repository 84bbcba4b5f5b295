package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is one logged block of play time on a single game
type Session struct {
	ID            int64           `json:"session_id"`
	UserID        string          `json:"user_id"`
	GameID        int64           `json:"game_id"`
	Hours         decimal.Decimal `json:"hours"`
	CreditsEarned decimal.Decimal `json:"credits_earned"`
	PlayedAt      time.Time       `json:"played_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Bonus is a manual credit grant or adjustment. Bonuses only count towards
// all-time standings.
type Bonus struct {
	ID        int64           `json:"bonus_id"`
	UserID    string          `json:"user_id"`
	Credits   decimal.Decimal `json:"credits"`
	Reason    string          `json:"reason"`
	GrantedBy string          `json:"granted_by"`
	GrantedAt time.Time       `json:"granted_at"`
}

// UserBalance is the derived running total for a user.
// It always equals sum(session credits) + sum(bonus credits) and is never
// used as an input to accrual.
type UserBalance struct {
	UserID       string          `json:"user_id"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SessionResult is returned after a session has been logged
type SessionResult struct {
	Session     Session         `json:"session"`
	PriorHours  decimal.Decimal `json:"prior_hours"`
	Balance     UserBalance     `json:"balance"`
	CurrentRate decimal.Decimal `json:"current_rate"`
}

// RecalculationReport summarizes an explicit credit recalculation pass
type RecalculationReport struct {
	GameID          int64           `json:"game_id"`
	SessionsScanned int             `json:"sessions_scanned"`
	SessionsUpdated int             `json:"sessions_updated"`
	UsersRefreshed  int             `json:"users_refreshed"`
	CreditsDelta    decimal.Decimal `json:"credits_delta"`
}
