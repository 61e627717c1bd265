package repository

import (
	"context"
	"time"

	"github.com/osse101/Credence_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// LedgerTx extends Tx with the operations that move CU.
// Every pool-mutating operation runs inside one LedgerTx that locks the
// prediction row first and the affected user rows after it, ascending by id.
type LedgerTx interface {
	Tx // Commit, Rollback

	// Prediction rows
	ExpirePredictionIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error)
	GetPredictionForUpdate(ctx context.Context, predictionID string) (*domain.Prediction, error)
	MarkPredictionLocked(ctx context.Context, predictionID string, at time.Time) error
	ResolvePrediction(ctx context.Context, res *domain.Resolution, expected domain.PredictionStatus) (int64, error)
	MarkCorrectOption(ctx context.Context, predictionID, optionID string) error

	// User rows
	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	UpdateUserBalance(ctx context.Context, userID string, cuAvailable, cuLocked int64, rs float64) error
	AppendTransaction(ctx context.Context, txn *domain.CuTransaction) error

	// Commitment rows
	GetCommitment(ctx context.Context, userID, predictionID string) (*domain.Commitment, error)
	GetPoolCommitments(ctx context.Context, predictionID string) ([]domain.Commitment, error)
	CreateCommitment(ctx context.Context, c *domain.Commitment) error
	UpdateCommitment(ctx context.Context, c *domain.Commitment) error
	DeleteCommitment(ctx context.Context, commitmentID string) error
	SetCommitmentResult(ctx context.Context, commitmentID string, cuReturned int64, rsChange float64) (int64, error)
	RecordWithdrawal(ctx context.Context, w *domain.Withdrawal) error
}
