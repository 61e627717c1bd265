package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeCheckViolation is raised when a balance or choice CHECK constraint fails
	PgErrorCodeCheckViolation = "23514"
)

// Constraint names referenced when translating errors
const (
	ConstraintCommitmentsUserPrediction = "commitments_user_prediction_key"
	ConstraintUsersUsername             = "users_username_key"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - User Operations
const (
	ErrMsgInvalidUserID           = "invalid user id"
	ErrMsgFailedToInsertUser      = "failed to insert user"
	ErrMsgFailedToGetUser         = "failed to get user"
	ErrMsgFailedToUpdateBalance   = "failed to update user balance"
	ErrMsgFailedToListUsers       = "failed to list users"
	ErrMsgFailedToInsertLedgerRow = "failed to insert cu transaction"
	ErrMsgFailedToGetTransactions = "failed to get cu transactions"
	ErrMsgFailedToSumTransactions = "failed to sum cu transactions"
)

// Error Messages - Prediction Operations
const (
	ErrMsgInvalidPredictionID       = "invalid prediction id"
	ErrMsgFailedToGetPrediction     = "failed to get prediction"
	ErrMsgFailedToGetOptions        = "failed to get prediction options"
	ErrMsgFailedToInsertPrediction  = "failed to insert prediction"
	ErrMsgFailedToInsertOption      = "failed to insert prediction option"
	ErrMsgFailedToExpirePredictions = "failed to expire predictions"
	ErrMsgFailedToUpdateStatus      = "failed to update prediction status"
	ErrMsgFailedToMarkLocked        = "failed to mark prediction locked"
	ErrMsgFailedToResolvePrediction = "failed to resolve prediction"
	ErrMsgFailedToMarkOption        = "failed to mark correct option"
)

// Error Messages - Commitment Operations
const (
	ErrMsgFailedToGetCommitment    = "failed to get commitment"
	ErrMsgFailedToGetPool          = "failed to get pool commitments"
	ErrMsgFailedToInsertCommitment = "failed to insert commitment"
	ErrMsgFailedToUpdateCommitment = "failed to update commitment"
	ErrMsgFailedToDeleteCommitment = "failed to delete commitment"
	ErrMsgFailedToSetResult        = "failed to set commitment result"
	ErrMsgFailedToInsertWithdrawal = "failed to insert commitment withdrawal"
	ErrMsgFailedToScanCommitment   = "failed to scan commitment"
)
