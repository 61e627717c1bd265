package resolution

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/repository"
)

// MockRepository implements repository.Resolution for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginLedgerTx(ctx context.Context) (repository.LedgerTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.LedgerTx), args.Error(1)
}

// MockTx implements repository.LedgerTx for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) ExpirePredictionIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error) {
	args := m.Called(ctx, predictionID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) GetPredictionForUpdate(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

func (m *MockTx) MarkPredictionLocked(ctx context.Context, predictionID string, at time.Time) error {
	args := m.Called(ctx, predictionID, at)
	return args.Error(0)
}

func (m *MockTx) ResolvePrediction(ctx context.Context, res *domain.Resolution, expected domain.PredictionStatus) (int64, error) {
	args := m.Called(ctx, res, expected)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) MarkCorrectOption(ctx context.Context, predictionID, optionID string) error {
	args := m.Called(ctx, predictionID, optionID)
	return args.Error(0)
}

func (m *MockTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockTx) UpdateUserBalance(ctx context.Context, userID string, cuAvailable, cuLocked int64, rs float64) error {
	args := m.Called(ctx, userID, cuAvailable, cuLocked, rs)
	return args.Error(0)
}

func (m *MockTx) AppendTransaction(ctx context.Context, txn *domain.CuTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTx) GetCommitment(ctx context.Context, userID, predictionID string) (*domain.Commitment, error) {
	args := m.Called(ctx, userID, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commitment), args.Error(1)
}

func (m *MockTx) GetPoolCommitments(ctx context.Context, predictionID string) ([]domain.Commitment, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commitment), args.Error(1)
}

func (m *MockTx) CreateCommitment(ctx context.Context, c *domain.Commitment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockTx) UpdateCommitment(ctx context.Context, c *domain.Commitment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockTx) DeleteCommitment(ctx context.Context, commitmentID string) error {
	args := m.Called(ctx, commitmentID)
	return args.Error(0)
}

func (m *MockTx) SetCommitmentResult(ctx context.Context, commitmentID string, cuReturned int64, rsChange float64) (int64, error) {
	args := m.Called(ctx, commitmentID, cuReturned, rsChange)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) RecordWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

// Ensure MockTx implements repository.LedgerTx
var _ repository.LedgerTx = (*MockTx)(nil)

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}

// MockAuthorizer implements Authorizer for testing
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) CanResolve(ctx context.Context, resolverID string, pred *domain.Prediction) (bool, error) {
	args := m.Called(ctx, resolverID, pred)
	return args.Bool(0), args.Error(1)
}
