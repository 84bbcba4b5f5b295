package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Input errors
	ErrMsgInvalidInput      = "invalid input"
	ErrMsgRateBelowMinimum  = "rate below minimum"
	ErrMsgInvalidPeriodKind = "invalid period kind"

	// Catalog errors
	ErrMsgUnknownGame   = "unknown game"
	ErrMsgDuplicateGame = "game already exists"

	// Period errors
	ErrMsgPeriodNotFound        = "period not found"
	ErrMsgStalePeriodRewrite    = "stale period rewrite"
	ErrMsgBoundaryMismatch      = "stored period boundaries do not match calendar"
	ErrMsgRecalculationMismatch = "snapshot does not match recalculated ranking"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgTxClosed      = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Validation errors
	ErrInvalidInput      = errors.New(ErrMsgInvalidInput)
	ErrInvalidPeriodKind = errors.New(ErrMsgInvalidPeriodKind)

	// ErrRateBelowMinimum is also an ErrInvalidInput
	ErrRateBelowMinimum = &wrappedError{msg: ErrMsgRateBelowMinimum, base: ErrInvalidInput}

	// Catalog errors
	ErrUnknownGame   = errors.New(ErrMsgUnknownGame)
	ErrDuplicateGame = errors.New(ErrMsgDuplicateGame)

	// Period errors
	ErrPeriodNotFound        = errors.New(ErrMsgPeriodNotFound)
	ErrStalePeriodRewrite    = errors.New(ErrMsgStalePeriodRewrite)
	ErrBoundaryMismatch      = errors.New(ErrMsgBoundaryMismatch)
	ErrRecalculationMismatch = errors.New(ErrMsgRecalculationMismatch)

	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)

// wrappedError is a sentinel that also matches a more general sentinel via errors.Is
type wrappedError struct {
	msg  string
	base error
}

func (e *wrappedError) Error() string { return e.msg }

func (e *wrappedError) Unwrap() error { return e.base }
