package event

import "time"

// EventSchemaVersion is stamped on every published event
const EventSchemaVersion = "1.0"

// RetryQueueBufferSize bounds the events waiting for redelivery
const RetryQueueBufferSize = 1000

// MetadataKeyPredictionID keys the prediction an event concerns
const MetadataKeyPredictionID = "prediction_id"

// Dead-letter file
const (
	DeadLetterFilePermissions = 0o644
	DeadLetterSchemaVersion   = "1.0"
)

// Log messages
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
	LogMsgEventDeadLettered     = "Event written to dead-letter file"
)

// Error messages
const (
	ErrMsgDecodePayload        = "failed to decode event payload into"
	ErrMsgOpenDeadLetter       = "failed to open dead-letter file"
	ErrMsgHandlersFailedFormat = "%d handlers failed for event %s: %w"
)

// CalculateRetryDelay doubles baseDelay for each attempt after the first
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
