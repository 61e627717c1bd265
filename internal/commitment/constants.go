package commitment

// ==================== Operation Names ====================

// Operation labels recorded by metrics.ObserveOperation
const (
	OpCreate        = "commitment.create"
	OpUpdate        = "commitment.update"
	OpRemove        = "commitment.remove"
	OpPreviewRemove = "commitment.preview_removal"
	OpGetPool       = "commitment.get_pool"
)

// ==================== Error Messages ====================

// Database operation error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgExpireFailed            = "failed to expire prediction: %w"
	ErrMsgGetPredictionFailed     = "failed to get prediction: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgGetCommitmentFailed     = "failed to get commitment: %w"
	ErrMsgGetPoolFailed           = "failed to get pool: %w"
	ErrMsgWriteCommitmentFailed   = "failed to write commitment: %w"
	ErrMsgUpdateBalanceFailed     = "failed to update balance: %w"
	ErrMsgAppendLedgerFailed      = "failed to append ledger entry: %w"
	ErrMsgRecordWithdrawalFailed  = "failed to record withdrawal: %w"
	ErrMsgMarkLockedFailed        = "failed to mark prediction locked: %w"
)

// Formatted domain error messages
const (
	ErrMsgAmountExceedsMaxFmt  = "%w: %d exceeds maximum of %d"
	ErrMsgInsufficientFmt      = "%w: need %d, have %d"
	ErrMsgStatusFmt            = "%w: status is %s"
	ErrMsgDeadlinePassedFmt    = "%w: resolve-by datetime has passed"
	ErrMsgChoiceKindFmt        = "%w: %s prediction requires %s"
	ErrMsgChoiceBothFmt        = "%w: provide either binary_choice or option_id, not both"
	ErrMsgUnknownOptionFmt     = "%w: %s"
	ErrMsgNotFoundFmt          = "%w: %s"
	ErrMsgCommitmentMissingFmt = "%w: user %s, prediction %s"
)

// Shutdown error messages
const (
	ErrMsgShutdownTimedOut = "shutdown timed out: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgCreateCalled        = "CreateCommitment called"
	LogMsgCommitmentCreated   = "Commitment created"
	LogMsgUpdateCalled        = "UpdateCommitment called"
	LogMsgCommitmentUpdated   = "Commitment updated"
	LogMsgCommitmentUnchanged = "Commitment unchanged"
	LogMsgRemoveCalled        = "RemoveCommitment called"
	LogMsgCommitmentRemoved   = "Commitment removed"
	LogMsgPredictionExpired   = "Prediction passed its deadline during commitment change"
	LogMsgShuttingDown        = "Commitment service shutting down, waiting for background tasks..."
)

// Choice kinds named in validation errors
const (
	choiceNameBinary = "binary_choice"
	choiceNameOption = "option_id"
)
