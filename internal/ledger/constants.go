package ledger

import "time"

// Query limits
const (
	DefaultSessionListLimit = 20
	MaxSessionListLimit     = 200
)

// Input bounds
const (
	MaxUserIDLength = 128
	MaxReasonLength = 500

	// MaxFutureSkew tolerates client clocks running ahead of the server
	MaxFutureSkew = time.Hour
)

// Error messages
const (
	ErrMsgUserIDRequired     = "user id is required"
	ErrMsgUserIDTooLong      = "user id exceeds %d characters"
	ErrMsgGameIDRequired     = "game id must be positive"
	ErrMsgHoursNotPositive   = "hours must be greater than zero"
	ErrMsgPlayedAtOutOfRange = "played_at %s is outside the supported range"
	ErrMsgPlayedAtInFuture   = "played_at %s is in the future"
	ErrMsgCreditsZero        = "bonus credits must not be zero"
	ErrMsgReasonRequired     = "bonus reason is required"
	ErrMsgReasonTooLong      = "bonus reason exceeds %d characters"
	ErrMsgGrantorRequired    = "bonus grantor is required"
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgLockFailed         = "failed to lock user game: %w"
	ErrMsgPriorHoursFailed   = "failed to read prior hours: %w"
	ErrMsgInsertSession      = "failed to record session: %w"
	ErrMsgInsertBonus        = "failed to record bonus: %w"
	ErrMsgRefreshBalance     = "failed to refresh balance: %w"
	ErrMsgGetBalance         = "failed to get balance: %w"
	ErrMsgListSessions       = "failed to list sessions: %w"
	ErrMsgRecalcLoad         = "failed to load sessions for game %d: %w"
	ErrMsgRecalcUpdate       = "failed to rewrite session %d: %w"
	ErrMsgRecalcListGames    = "failed to list games for recalculation: %w"
	ErrMsgRecalcGameFailed   = "recalculation of game %d failed: %w"
	ErrMsgRecalcLockFailed   = "failed to lock user %s for recalculation: %w"
	ErrMsgRecalcGameLookup   = "failed to load game %d for recalculation: %w"
	ErrMsgRefreshUserFailed  = "failed to refresh balance for user %s: %w"
)

// Log messages
const (
	LogMsgSessionLogged       = "Play session logged"
	LogMsgSessionRejected     = "Play session rejected"
	LogMsgBonusGranted        = "Bonus granted"
	LogMsgBalanceRefreshed    = "Balance refreshed"
	LogMsgRecalculationDone   = "Credit recalculation complete"
	LogMsgRecalculationFailed = "Credit recalculation failed"
)
