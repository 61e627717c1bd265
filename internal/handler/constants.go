package handler

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// Client facing messages
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgInvalidRequest     = "Invalid request body"
	ErrMsgInvalidLimit       = "Invalid limit parameter"
	MsgStoreUnavailable      = "database connection failed"
	MsgSweepCompleted        = "Expired predictions moved to PENDING"
	MsgGrantCompleted        = "Granted CU to every user"
)

// Log messages
const (
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgServiceError    = "Admin request failed"
	LogMsgDecodeFailed    = "Failed to decode request"
)

// encodeBufferSize is the initial capacity of pooled response buffers
const encodeBufferSize = 512
