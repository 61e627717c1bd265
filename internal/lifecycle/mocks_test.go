package lifecycle

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
)

// MockRepository implements repository.Lifecycle for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetPrediction(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

func (m *MockRepository) CreatePrediction(ctx context.Context, p *domain.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) ExpireActive(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ExpireIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error) {
	args := m.Called(ctx, predictionID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdatePredictionStatusIfMatches(ctx context.Context, predictionID string, expected, next domain.PredictionStatus) (int64, error) {
	args := m.Called(ctx, predictionID, expected, next)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}
