package metrics

// Namespace prefixes every metric this package registers
const Namespace = "playcredits"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPResponseSize     = "http_response_size_bytes"
	MetricNameHTTPRejections       = "http_rejections_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Scheduler metric names
const (
	MetricNameScheduledRuns = "scheduled_runs_total"
)

// Business metric names
const (
	MetricNameSessionsLogged       = "sessions_logged_total"
	MetricNameHoursLogged          = "hours_logged_total"
	MetricNameCreditsAccrued       = "credits_accrued_total"
	MetricNameBonusesGranted       = "bonuses_granted_total"
	MetricNameSessionsRecalculated = "sessions_recalculated_total"
	MetricNameRatesUpdated         = "game_rates_updated_total"
	MetricNamePeriodsRolled        = "periods_rolled_total"
	MetricNameSnapshotsRecorded    = "snapshots_recorded_total"
	MetricNameSnapshotsSkipped     = "snapshots_skipped_total"
	MetricNameSnapshotPlacements   = "snapshot_placements"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPResponseSize     = "HTTP response body size in bytes"
	HelpTextHTTPRejections       = "Requests refused by authentication or rate limiting"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

const (
	HelpTextScheduledRuns = "Scheduled job runs by outcome: enqueued or skipped because the worker queue was full"
)

// Business metric help text
const (
	HelpTextSessionsLogged       = "Total number of play sessions logged"
	HelpTextHoursLogged          = "Total play hours logged"
	HelpTextCreditsAccrued       = "Total credits earned from play sessions"
	HelpTextBonusesGranted       = "Total number of bonus grants and adjustments"
	HelpTextSessionsRecalculated = "Total number of sessions rewritten by recalculation"
	HelpTextRatesUpdated         = "Total number of game rate changes"
	HelpTextPeriodsRolled        = "Total number of leaderboard periods closed by rollover"
	HelpTextSnapshotsRecorded    = "Total number of leaderboard history snapshots written"
	HelpTextSnapshotsSkipped     = "Total number of snapshot requests rejected by the history guard"
	HelpTextSnapshotPlacements   = "Placements written by the latest snapshot of each period kind"
)

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelGame    = "game_id"
	LabelKind    = "kind"
	LabelReason  = "reason"
	LabelJob     = "job"
	LabelOutcome = "outcome"
)

// Outcome label values for ScheduledRuns
const (
	OutcomeEnqueued = "enqueued"
	OutcomeSkipped  = "skipped"
)

// UnmatchedRoute labels requests that did not match any route
const UnmatchedRoute = "unmatched"

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Debug log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected shape"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
