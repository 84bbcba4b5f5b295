package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPResponseSize,
			Help:      HelpTextHTTPResponseSize,
			Buckets:   prometheus.ExponentialBuckets(128, 4, 7),
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRejections,
			Help:      HelpTextHTTPRejections,
		},
		[]string{LabelReason},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Scheduler Metrics
var (
	ScheduledRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameScheduledRuns,
			Help:      HelpTextScheduledRuns,
		},
		[]string{LabelJob, LabelOutcome},
	)
)

// Business Metrics
var (
	SessionsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSessionsLogged,
			Help:      HelpTextSessionsLogged,
		},
		[]string{LabelGame},
	)

	HoursLogged = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHoursLogged,
			Help:      HelpTextHoursLogged,
		},
	)

	CreditsAccrued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCreditsAccrued,
			Help:      HelpTextCreditsAccrued,
		},
	)

	BonusesGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameBonusesGranted,
			Help:      HelpTextBonusesGranted,
		},
	)

	SessionsRecalculated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSessionsRecalculated,
			Help:      HelpTextSessionsRecalculated,
		},
		[]string{LabelGame},
	)

	RatesUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameRatesUpdated,
			Help:      HelpTextRatesUpdated,
		},
	)

	PeriodsRolled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePeriodsRolled,
			Help:      HelpTextPeriodsRolled,
		},
		[]string{LabelKind},
	)

	SnapshotsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSnapshotsRecorded,
			Help:      HelpTextSnapshotsRecorded,
		},
		[]string{LabelKind},
	)

	SnapshotsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSnapshotsSkipped,
			Help:      HelpTextSnapshotsSkipped,
		},
		[]string{LabelKind, LabelReason},
	)

	SnapshotPlacements = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameSnapshotPlacements,
			Help:      HelpTextSnapshotPlacements,
		},
		[]string{LabelKind},
	)
)
