package period

import "time"

// DefaultWeekStart is the weekday weekly periods begin on when none is configured
const DefaultWeekStart = time.Monday

// DefaultTimezone is the canonical timezone used when none is configured
const DefaultTimezone = "UTC"

// DaysPerWeek is the length of a weekly period in calendar days
const DaysPerWeek = 7

// All-time sentinel interval. Wide enough to hold any real session timestamp
// and still representable as a PostgreSQL TIMESTAMPTZ.
var (
	AllTimeStart = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	AllTimeEnd   = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Error messages
const (
	ErrMsgUnknownKind         = "unknown period kind %q"
	ErrMsgUnknownWeekday      = "unknown weekday %q"
	ErrMsgLoadLocation        = "failed to load timezone %q: %w"
	ErrMsgBoundaryMismatchFmt = "%w: %s period [%s, %s) expected [%s, %s)"
)
