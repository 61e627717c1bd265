package sqlite

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// timeLayout is fixed width so stored timestamps compare correctly as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Constraint fragments reported by SQLite in UNIQUE violations
const (
	uniqueCommitment = "commitments.user_id, commitments.prediction_id"
	uniqueUsername   = "users.username"
)

// Log Messages
const LogMsgCloseFailed = "failed to close sqlite database"

// Error Messages
const (
	ErrMsgFailedToOpen              = "failed to open sqlite database"
	ErrMsgFailedToConfigure         = "failed to configure sqlite database"
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToParseTime         = "failed to parse stored timestamp"
	ErrMsgFailedToDecodeLinks       = "failed to decode evidence links"

	ErrMsgFailedToInsertUser      = "failed to insert user"
	ErrMsgFailedToGetUser         = "failed to get user"
	ErrMsgFailedToUpdateBalance   = "failed to update user balance"
	ErrMsgFailedToListUsers       = "failed to list users"
	ErrMsgFailedToInsertLedgerRow = "failed to insert cu transaction"
	ErrMsgFailedToGetTransactions = "failed to get cu transactions"
	ErrMsgFailedToSumTransactions = "failed to sum cu transactions"

	ErrMsgFailedToGetPrediction     = "failed to get prediction"
	ErrMsgFailedToGetOptions        = "failed to get prediction options"
	ErrMsgFailedToInsertPrediction  = "failed to insert prediction"
	ErrMsgFailedToInsertOption      = "failed to insert prediction option"
	ErrMsgFailedToExpirePredictions = "failed to expire predictions"
	ErrMsgFailedToUpdateStatus      = "failed to update prediction status"
	ErrMsgFailedToMarkLocked        = "failed to mark prediction locked"
	ErrMsgFailedToResolvePrediction = "failed to resolve prediction"
	ErrMsgFailedToMarkOption        = "failed to mark correct option"

	ErrMsgFailedToGetCommitment    = "failed to get commitment"
	ErrMsgFailedToGetPool          = "failed to get pool commitments"
	ErrMsgFailedToInsertCommitment = "failed to insert commitment"
	ErrMsgFailedToUpdateCommitment = "failed to update commitment"
	ErrMsgFailedToDeleteCommitment = "failed to delete commitment"
	ErrMsgFailedToSetResult        = "failed to set commitment result"
	ErrMsgFailedToInsertWithdrawal = "failed to insert commitment withdrawal"
)
