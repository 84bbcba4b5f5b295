package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinBaseRate is the lowest accrual rate a game may be configured with
var MinBaseRate = decimal.Zero

// Cache defaults used when the caller passes non-positive values
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 10 * time.Minute
)

// MaxNameLength bounds a game name after normalization, in runes
const MaxNameLength = 200

// Error messages
const (
	ErrMsgNameRequired      = "game name is required"
	ErrMsgNameTooLong       = "game name exceeds %d characters"
	ErrMsgNegativeHalfLife  = "half-life must not be negative"
	ErrMsgRateBelowMinFmt   = "base rate %s is below minimum %s"
	ErrMsgCreateGameFailed  = "failed to create game: %w"
	ErrMsgGetGameFailed     = "failed to get game %d: %w"
	ErrMsgListGamesFailed   = "failed to list games: %w"
	ErrMsgUpdateRatesFailed = "failed to update rates for game %d: %w"
)

// Log messages
const (
	LogMsgGameCreated     = "Game added to catalog"
	LogMsgRatesUpdated    = "Game accrual rates updated"
	LogMsgCacheHit        = "Catalog cache hit"
	LogMsgCacheInvalidate = "Catalog cache entry invalidated"
)

// Seed loader messages
const (
	ErrMsgReadSeedFailed  = "failed to read game seed: %w"
	ErrMsgParseSeedFailed = "failed to parse game seed: %w"
	ErrMsgSeedEmpty       = "no games defined"
	ErrMsgSeedGameFailed  = "failed to seed game %q: %w"

	LogMsgSeedInserted  = "Seeded game added"
	LogMsgSeedUpdated   = "Seeded game rates changed"
	LogMsgSeedCompleted = "Game seed sync completed"
)
