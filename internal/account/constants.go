package account

// History page limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Operation labels recorded by metrics.ObserveOperation
const (
	OpRegister  = "account.register"
	OpAdjust    = "account.adjust"
	OpGrantAll  = "account.grant_all"
	OpHistory   = "account.history"
	OpStats     = "account.stats"
	OpReconcile = "account.reconcile"
)

// Error messages
const (
	ErrMsgCreateUserFailed        = "failed to create user: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgListUsersFailed         = "failed to list users: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgUpdateBalanceFailed     = "failed to update balance: %w"
	ErrMsgAppendLedgerFailed      = "failed to append ledger entry: %w"
	ErrMsgGetHistoryFailed        = "failed to get history: %w"
	ErrMsgGetCommitmentsFailed    = "failed to get commitments: %w"
	ErrMsgSumLedgerFailed         = "failed to sum ledger: %w"
	ErrMsgGrantFailed             = "failed to grant user %s: %w"

	ErrMsgNotFoundFmt    = "%w: %s"
	ErrMsgNegativeFmt    = "%w: balance %d cannot absorb %d"
	ErrMsgGrantAmountFmt = "%w: grant must be between 1 and %d, got %d"
)

// Log messages
const (
	LogMsgUserRegistered  = "User registered"
	LogMsgBalanceAdjusted = "Balance adjusted"
	LogMsgGrantedAll      = "Granted CU to every user"
	LogMsgUnbalanced      = "Ledger does not reconcile with balance"
)
