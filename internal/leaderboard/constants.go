package leaderboard

// Leaderboard request limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Period history limits
const (
	DefaultPeriodListLimit = 12
	MaxPeriodListLimit     = 100
)

// Error messages
const (
	ErrMsgBeginTxFailed       = "failed to begin transaction: %w"
	ErrMsgCommitFailed        = "failed to commit transaction: %w"
	ErrMsgRankFailed          = "failed to rank %s leaderboard: %w"
	ErrMsgUpsertPeriodFailed  = "failed to get or create %s period: %w"
	ErrMsgClosePeriodsFailed  = "failed to close ended %s periods: %w"
	ErrMsgLockKindFailed      = "failed to lock %s periods: %w"
	ErrMsgLatestClosedFailed  = "failed to find latest closed %s period: %w"
	ErrMsgReplaceFailed       = "failed to write placements for period %d: %w"
	ErrMsgListPeriodsFailed   = "failed to list %s periods: %w"
	ErrMsgGetPlacementsFailed = "failed to get placements for period %d: %w"
	ErrMsgRefreshKindFailed   = "failed to refresh %s snapshot: %w"
)

// Log messages
const (
	LogMsgPeriodCreated       = "Leaderboard period ready"
	LogMsgPeriodsRolled       = "Leaderboard periods rolled forward"
	LogMsgSnapshotRecorded    = "Leaderboard snapshot recorded"
	LogMsgSnapshotSkipped     = "Leaderboard snapshot skipped by history guard"
	LogMsgNothingClosed       = "No closed period to snapshot"
	LogMsgBoundaryCorrupt     = "Stored period boundaries do not match calendar"
	LogMsgDiffMismatch        = "Leaderboard snapshot differs from recalculated ranking"
	LogMsgRefreshFailed       = "Failed to refresh active snapshot"
	LogMsgLeaderboardComputed = "Leaderboard computed"
)
