package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event stream metrics
var (
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStreamClients,
			Help: HelpTextStreamClients,
		},
	)

	StreamEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStreamEventsDropped,
			Help: HelpTextStreamEventsDropped,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Ledger operation metrics
var (
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameOperationDuration,
			Help:    HelpTextOperationDuration,
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelOperation},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOperationErrors,
			Help: HelpTextOperationErrors,
		},
		[]string{LabelOperation, LabelKind},
	)
)

// Business Metrics
var (
	Commitments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommitments,
			Help: HelpTextCommitments,
		},
		[]string{LabelType},
	)

	Withdrawals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWithdrawals,
			Help: HelpTextWithdrawals,
		},
		[]string{LabelReason},
	)

	CUBurned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCUBurned,
			Help: HelpTextCUBurned,
		},
	)

	CURefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCURefunded,
			Help: HelpTextCURefunded,
		},
	)

	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResolutions,
			Help: HelpTextResolutions,
		},
		[]string{LabelOutcome},
	)

	CUMinted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCUMinted,
			Help: HelpTextCUMinted,
		},
	)

	CUDestroyed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCUDestroyed,
			Help: HelpTextCUDestroyed,
		},
	)

	PredictionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePredictionsExpired,
			Help: HelpTextPredictionsExpired,
		},
	)

	PredictionsActivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePredictionsApproved,
			Help: HelpTextPredictionsApproved,
		},
	)
)
