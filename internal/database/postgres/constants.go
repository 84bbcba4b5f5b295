package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Table names used by COPY
const (
	TablePlacementSnapshots = "placement_snapshots"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Catalog Operations
const (
	ErrMsgFailedToInsertGame  = "failed to insert game"
	ErrMsgFailedToGetGame     = "failed to get game"
	ErrMsgFailedToListGames   = "failed to list games"
	ErrMsgFailedToUpdateRates = "failed to update game rates"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToLockUserGame     = "failed to lock user game"
	ErrMsgFailedToSumPriorHours    = "failed to sum prior hours"
	ErrMsgFailedToInsertSession    = "failed to insert session"
	ErrMsgFailedToInsertBonus      = "failed to insert bonus"
	ErrMsgFailedToRefreshBalance   = "failed to refresh balance"
	ErrMsgFailedToGetBalance       = "failed to get balance"
	ErrMsgFailedToListSessions     = "failed to list sessions"
	ErrMsgFailedToUpdateSession    = "failed to update session credits"
	ErrMsgFailedToListGameIDs      = "failed to list game ids"
	ErrMsgFailedToScanSession      = "failed to scan session"
	ErrMsgFailedToLockGameSessions = "failed to lock game sessions"
)

// Error Messages - Leaderboard Operations
const (
	ErrMsgFailedToRank             = "failed to rank users"
	ErrMsgFailedToScanEntry        = "failed to scan leaderboard entry"
	ErrMsgFailedToUpsertPeriod     = "failed to upsert period"
	ErrMsgFailedToClosePeriods     = "failed to close ended periods"
	ErrMsgFailedToLockKind         = "failed to lock period kind"
	ErrMsgFailedToGetPeriod        = "failed to get period"
	ErrMsgFailedToListPeriods      = "failed to list periods"
	ErrMsgFailedToDeletePlacements = "failed to delete placements"
	ErrMsgFailedToCopyPlacements   = "failed to copy placements"
	ErrMsgFailedToGetPlacements    = "failed to get placements"
	ErrMsgFailedToGetLatestClosed  = "failed to get latest closed period"
)

// Log Messages
const (
	LogMsgRollbackFailed = "Failed to rollback transaction"
)
