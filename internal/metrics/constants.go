package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Event stream metric names
const (
	MetricNameStreamClients       = "event_stream_clients"
	MetricNameStreamEventsDropped = "event_stream_dropped_total"
)

// Ledger operation metric names
const (
	MetricNameOperationDuration = "ledger_operation_duration_seconds"
	MetricNameOperationErrors   = "ledger_operation_errors_total"
)

// Business metric names
const (
	MetricNameCommitments         = "commitments_total"
	MetricNameWithdrawals         = "commitment_withdrawals_total"
	MetricNameCUBurned            = "cu_burned_total"
	MetricNameCURefunded          = "cu_refunded_total"
	MetricNameResolutions         = "resolutions_total"
	MetricNameCUMinted            = "cu_minted_total"
	MetricNameCUDestroyed         = "cu_destroyed_total"
	MetricNamePredictionsExpired  = "predictions_expired_total"
	MetricNamePredictionsApproved = "predictions_activated_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

const (
	HelpTextStreamClients       = "Current number of connected event stream clients"
	HelpTextStreamEventsDropped = "Events not delivered to a stream client because its buffer was full"
)

// Ledger operation metric help text
const (
	HelpTextOperationDuration = "Latency of ledger service operations in seconds"
	HelpTextOperationErrors   = "Total number of failed ledger service operations by error kind"
)

// Business metric help text
const (
	HelpTextCommitments         = "Total number of commitments created or changed"
	HelpTextWithdrawals         = "Total number of early exits from a commitment"
	HelpTextCUBurned            = "Total CU burned by early exit penalties"
	HelpTextCURefunded          = "Total CU refunded on early exit"
	HelpTextResolutions         = "Total number of resolved predictions"
	HelpTextCUMinted            = "Total CU created by resolution bonuses"
	HelpTextCUDestroyed         = "Total CU destroyed by losing stakes"
	HelpTextPredictionsExpired  = "Total number of predictions moved from ACTIVE to PENDING"
	HelpTextPredictionsApproved = "Total number of predictions approved into ACTIVE"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelOperation = "operation"
	LabelKind      = "kind"
	LabelReason    = "reason"
	LabelOutcome   = "outcome"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)
