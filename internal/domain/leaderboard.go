package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodKind identifies a leaderboard window type
type PeriodKind string

const (
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
	PeriodAllTime PeriodKind = "all_time"
)

// PeriodKinds lists every supported kind in rollover order
var PeriodKinds = []PeriodKind{PeriodWeekly, PeriodMonthly, PeriodAllTime}

// Valid reports whether k is a supported kind
func (k PeriodKind) Valid() bool {
	switch k {
	case PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return true
	}
	return false
}

// IncludesBonuses reports whether bonus grants count towards this kind
func (k PeriodKind) IncludesBonuses() bool {
	return k == PeriodAllTime
}

// Period is a half-open [StartAt, EndAt) leaderboard window
type Period struct {
	ID        int64      `json:"period_id"`
	Kind      PeriodKind `json:"kind"`
	StartAt   time.Time  `json:"start_at"`
	EndAt     time.Time  `json:"end_at"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

func (p Period) String() string {
	return fmt.Sprintf("%s[%s,%s)#%d", p.Kind, p.StartAt.Format(time.RFC3339), p.EndAt.Format(time.RFC3339), p.ID)
}

// LeaderboardEntry is one user's aggregate over a period
type LeaderboardEntry struct {
	Rank               int             `json:"rank,omitempty"`
	UserID             string          `json:"user_id"`
	Credits            decimal.Decimal `json:"credits"`
	GamesPlayed        int             `json:"games_played"`
	MostPlayedGameID   int64           `json:"most_played_game_id"`
	MostPlayedGameName string          `json:"most_played_game_name"`
	MostPlayedHours    decimal.Decimal `json:"most_played_hours"`
	TotalHours         decimal.Decimal `json:"total_hours"`
}

// Leaderboard is a ranked view of a period computed on request
type Leaderboard struct {
	Kind    PeriodKind         `json:"kind"`
	StartAt time.Time          `json:"start_at"`
	EndAt   time.Time          `json:"end_at"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Placement is a persisted history row for a period
type Placement struct {
	PeriodID int64 `json:"period_id"`
	LeaderboardEntry
	RecordedAt time.Time `json:"recorded_at"`
}

// Snapshot skip reasons
const (
	SnapshotReasonStale         = "stale_period_rewrite"
	SnapshotReasonNothingClosed = "no_closed_period"
)

// SnapshotResult reports the outcome of recording a period's history.
// A skipped result is a guarded no-op, not a failure.
type SnapshotResult struct {
	Period     Period `json:"period"`
	Skipped    bool   `json:"skipped"`
	Reason     string `json:"reason,omitempty"`
	Placements int    `json:"placements"`
}

// Mismatch kinds reported by a snapshot diff
const (
	MismatchMissingFromSnapshot = "missing_from_snapshot"
	MismatchMissingFromRanking  = "missing_from_ranking"
	MismatchRank                = "rank"
	MismatchCredits             = "credits"
	MismatchHours               = "hours"
	MismatchGames               = "games"
)

// PlacementMismatch describes one divergence between stored and recomputed rows
type PlacementMismatch struct {
	UserID string            `json:"user_id"`
	Kind   string            `json:"kind"`
	Stored *LeaderboardEntry `json:"stored,omitempty"`
	Fresh  *LeaderboardEntry `json:"fresh,omitempty"`
}

// SnapshotDiff is the result of comparing a period's history with a fresh ranking
type SnapshotDiff struct {
	Period     Period              `json:"period"`
	Stored     int                 `json:"stored"`
	Fresh      int                 `json:"fresh"`
	Mismatches []PlacementMismatch `json:"mismatches"`
}

// Clean reports whether stored and fresh rankings agree
func (d *SnapshotDiff) Clean() bool {
	return len(d.Mismatches) == 0
}

// Err returns ErrRecalculationMismatch when the diff is not clean
func (d *SnapshotDiff) Err() error {
	if d.Clean() {
		return nil
	}
	return fmt.Errorf("%w: period %d has %d mismatched placements", ErrRecalculationMismatch, d.Period.ID, len(d.Mismatches))
}
