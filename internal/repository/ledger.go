package repository

import (
	"context"
	"time"

	"github.com/osse101/Credence_Go/internal/domain"
)

// Commitment defines the data access required by the commitment service
type Commitment interface {
	BeginLedgerTx(ctx context.Context) (LedgerTx, error)

	GetPrediction(ctx context.Context, predictionID string) (*domain.Prediction, error)
	GetCommitment(ctx context.Context, userID, predictionID string) (*domain.Commitment, error)
	GetPoolCommitments(ctx context.Context, predictionID string) ([]domain.Commitment, error)
}

// Resolution defines the data access required by the resolution service
type Resolution interface {
	BeginLedgerTx(ctx context.Context) (LedgerTx, error)
}

// Lifecycle defines the data access required by the lifecycle service
type Lifecycle interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetPrediction(ctx context.Context, predictionID string) (*domain.Prediction, error)
	CreatePrediction(ctx context.Context, p *domain.Prediction) error
	// ExpireActive moves every ACTIVE prediction whose deadline is before now to PENDING
	ExpireActive(ctx context.Context, now time.Time) (int64, error)
	// ExpireIfDue is the single-row form of ExpireActive
	ExpireIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error)
	UpdatePredictionStatusIfMatches(ctx context.Context, predictionID string, expected, next domain.PredictionStatus) (int64, error)
}

// Account defines the data access required by the account service
type Account interface {
	BeginLedgerTx(ctx context.Context) (LedgerTx, error)

	CreateUser(ctx context.Context, user *domain.User, grant *domain.CuTransaction) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	GetTransactions(ctx context.Context, userID string, limit int) ([]domain.CuTransaction, error)
	GetUserCommitments(ctx context.Context, userID string) ([]domain.Commitment, error)
	SumTransactions(ctx context.Context, userID string) (sum int64, count int, err error)
}

// Store is the full persistence surface implemented by each backend
type Store interface {
	Commitment
	Lifecycle
	Account
	Ping(ctx context.Context) error
	Close()
}
