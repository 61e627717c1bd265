package lifecycle

import "time"

// Deadline cache defaults
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// Operation labels recorded by metrics.ObserveOperation
const (
	OpTransitionExpired   = "lifecycle.transition_expired"
	OpTransitionIfExpired = "lifecycle.transition_if_expired"
	OpGetPrediction       = "lifecycle.get_prediction"
	OpCreateDraft         = "lifecycle.create_draft"
	OpSubmit              = "lifecycle.submit"
	OpApprove             = "lifecycle.approve"
	OpReject              = "lifecycle.reject"
)

// Error messages
const (
	ErrMsgExpireFailed        = "failed to expire predictions: %w"
	ErrMsgGetPredictionFailed = "failed to get prediction: %w"
	ErrMsgGetUserFailed       = "failed to get author: %w"
	ErrMsgCreateFailed        = "failed to create prediction: %w"
	ErrMsgTransitionFailed    = "failed to update prediction status: %w"
	ErrMsgShutdownTimedOut    = "shutdown timed out: %w"

	ErrMsgNotFoundFmt       = "%w: %s"
	ErrMsgTransitionFmt     = "%w: %s -> %s while %s"
	ErrMsgOptionCountFmt    = "%w: multiple choice needs %d to %d options, got %d"
	ErrMsgBinaryOptionsFmt  = "%w: binary predictions take no options"
	ErrMsgDeadlinePassedFmt = "%w: %s"
)

// Log messages
const (
	LogMsgPredictionsExpired = "Predictions moved to PENDING"
	LogMsgPredictionExpired  = "Prediction moved to PENDING"
	LogMsgDraftCreated       = "Prediction draft created"
	LogMsgStatusChanged      = "Prediction status changed"
	LogMsgShuttingDown       = "Lifecycle service shutting down, waiting for background tasks..."
)
