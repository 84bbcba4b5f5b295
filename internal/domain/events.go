package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "ledger.session_logged")
const (
	// EventTypeSessionLogged is published after a play session is committed
	EventTypeSessionLogged = "ledger.session_logged"

	// EventTypeBonusGranted is published after a bonus grant is committed
	EventTypeBonusGranted = "ledger.bonus_granted"

	// EventTypeCreditsRecalculated is published after an explicit recalculation pass
	EventTypeCreditsRecalculated = "ledger.credits_recalculated"

	// EventTypeGameRatesUpdated is published when an admin changes a game's accrual parameters
	EventTypeGameRatesUpdated = "catalog.rates_updated"

	// EventTypePeriodRolled is published when a period kind rolls forward
	EventTypePeriodRolled = "leaderboard.period_rolled"

	// EventTypeSnapshotRecorded is published when a period's history is (re)written
	EventTypeSnapshotRecorded = "leaderboard.snapshot_recorded"

	// EventTypeSnapshotSkipped is published when the history guard rejects a rewrite
	EventTypeSnapshotSkipped = "leaderboard.snapshot_skipped"
)
