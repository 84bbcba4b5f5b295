package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Parameter validation error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidID         = "Invalid %s"
	ErrMsgInvalidTimestamp  = "Invalid at parameter, expected RFC3339"
	ErrMsgInvalidKind       = "Invalid kind parameter. Valid options: weekly, monthly, all_time"
	ErrMsgRecalculateTarget = "Provide either game_id or all, not both"
)

// Success messages for API responses
const (
	MsgRatesUpdated       = "Rates updated"
	MsgRatesRecalculated  = "Rates updated and credits recalculated"
	MsgRecalculationDone  = "Recalculation complete"
	MsgBalanceRefreshed   = "Balance refreshed"
	MsgSnapshotRecorded   = "Snapshot recorded"
	MsgSnapshotSkipped    = "Snapshot skipped"
	MsgSnapshotDiffClean  = "Stored history matches a fresh ranking"
	MsgSnapshotDiffFailed = "Stored history differs from a fresh ranking"
)

// Log messages
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgServiceFailed    = "Request failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgSessionLogged    = "Session logged"
	LogMsgGameCreated      = "Game created"
	LogMsgRatesUpdated     = "Game rates updated"
	LogMsgBonusGranted     = "Bonus granted"
	LogMsgRecalculated     = "Recalculation finished"
	LogMsgSnapshotFinished = "Snapshot request finished"
)
