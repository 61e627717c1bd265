package resolution

// OpResolve labels resolution latency and errors in metrics
const OpResolve = "prediction.resolve"

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetPredictionFailed     = "failed to get prediction: %w"
	ErrMsgAuthorizeFailed         = "failed to authorize resolver: %w"
	ErrMsgResolveFailed           = "failed to resolve prediction: %w"
	ErrMsgMarkOptionFailed        = "failed to mark winning option: %w"
	ErrMsgGetPoolFailed           = "failed to get pool: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgSettleFailed            = "failed to settle commitment: %w"
	ErrMsgUpdateBalanceFailed     = "failed to update balance: %w"
	ErrMsgAppendLedgerFailed      = "failed to append ledger entry: %w"
	ErrMsgShutdownTimedOut        = "shutdown timed out: %w"

	ErrMsgNotFoundFmt       = "%w: %s"
	ErrMsgInvalidOutcomeFmt = "%w: %q"
	ErrMsgStatusFmt         = "%w: status is %s"
	ErrMsgUnknownOptionFmt  = "%w: %s"
	ErrMsgForbiddenFmt      = "%w: %s"
	ErrMsgAlreadySettledFmt = "%w: commitment %s already settled"
	ErrMsgLockUnderflowFmt  = "%w: user %s locks %d but commitment %s holds %d"
	ErrMsgUserMissingFmt    = "%w: user %s of commitment %s"
)

// Log messages
const (
	LogMsgResolveCalled      = "Resolve called"
	LogMsgPredictionResolved = "Prediction resolved"
	LogMsgShuttingDown       = "Resolution service shutting down, waiting for background tasks..."
)
