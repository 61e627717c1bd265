// Package lifecycle owns prediction status changes that happen outside
// resolution: the authoring workflow and the move from ACTIVE to PENDING once
// the resolve-by deadline passes.
//
// Nothing here runs on a timer. Expiry happens when a caller touches the
// prediction, or when the optional sweep calls TransitionExpired.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/metrics"
	"github.com/osse101/Credence_Go/internal/repository"
	"github.com/osse101/Credence_Go/internal/validation"
)

// Service defines the interface for prediction lifecycle operations
type Service interface {
	TransitionExpired(ctx context.Context) (int64, error)
	TransitionIfExpired(ctx context.Context, predictionID string) (bool, error)
	GetPrediction(ctx context.Context, predictionID string) (*domain.Prediction, error)

	CreateDraft(ctx context.Context, req domain.NewPredictionRequest) (*domain.Prediction, error)
	SubmitForApproval(ctx context.Context, predictionID string) (*domain.Prediction, error)
	Approve(ctx context.Context, predictionID string) (*domain.Prediction, error)
	Reject(ctx context.Context, predictionID string) (*domain.Prediction, error)

	CacheStats() CacheStats
	Shutdown(ctx context.Context) error
}

// Publisher receives lifecycle events
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	repo      repository.Lifecycle
	publisher Publisher
	deadlines *deadlineCache
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewService creates a new lifecycle service. publisher may be nil.
func NewService(repo repository.Lifecycle, publisher Publisher, cacheCfg CacheConfig) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		deadlines: newDeadlineCache(cacheCfg),
		now:       time.Now,
	}
}

func (s *service) TransitionExpired(ctx context.Context) (n int64, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpTransitionExpired, start, err) }(time.Now())

	now := s.now().UTC()
	n, err = s.repo.ExpireActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgExpireFailed, err)
	}
	if n > 0 {
		logger.FromContext(ctx).Info(LogMsgPredictionsExpired, "count", n)
		s.publishExpired(ctx, "", n, now)
	}
	return n, nil
}

func (s *service) TransitionIfExpired(ctx context.Context, predictionID string) (expired bool, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpTransitionIfExpired, start, err) }(time.Now())

	now := s.now().UTC()
	if s.deadlines.stillOpen(predictionID, now) {
		return false, nil
	}

	n, err := s.repo.ExpireIfDue(ctx, predictionID, now)
	if err != nil {
		return false, fmt.Errorf(ErrMsgExpireFailed, err)
	}
	if n == 0 {
		return false, nil
	}

	s.deadlines.invalidate(predictionID)
	logger.FromContext(ctx).Info(LogMsgPredictionExpired, "prediction_id", predictionID)
	s.publishExpired(ctx, predictionID, n, now)
	return true, nil
}

func (s *service) GetPrediction(ctx context.Context, predictionID string) (_ *domain.Prediction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpGetPrediction, start, err) }(time.Now())

	if _, err := s.TransitionIfExpired(ctx, predictionID); err != nil {
		return nil, err
	}
	return s.load(ctx, predictionID)
}

func (s *service) CreateDraft(ctx context.Context, req domain.NewPredictionRequest) (_ *domain.Prediction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpCreateDraft, start, err) }(time.Now())

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := checkOptions(req.OutcomeType, req.Options); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !req.ResolveByDatetime.After(now) {
		return nil, fmt.Errorf(ErrMsgDeadlinePassedFmt, domain.ErrDeadlinePassed, req.ResolveByDatetime.UTC().Format(time.RFC3339))
	}

	author, err := s.repo.GetUser(ctx, req.AuthorID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if author == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrUserNotFound, req.AuthorID)
	}

	pred := &domain.Prediction{
		ID:                uuid.NewString(),
		AuthorID:          author.ID,
		ClaimText:         strings.TrimSpace(req.ClaimText),
		Status:            domain.PredictionStatusDraft,
		OutcomeType:       req.OutcomeType,
		ResolveByDatetime: req.ResolveByDatetime.UTC(),
		CreatedAt:         now,
	}
	for i, text := range req.Options {
		pred.Options = append(pred.Options, domain.PredictionOption{
			ID:           uuid.NewString(),
			PredictionID: pred.ID,
			Text:         strings.TrimSpace(text),
			DisplayOrder: i,
		})
	}

	if err := s.repo.CreatePrediction(ctx, pred); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgDraftCreated, "prediction_id", pred.ID, "author_id", pred.AuthorID, "outcome_type", pred.OutcomeType)
	return pred, nil
}

func (s *service) SubmitForApproval(ctx context.Context, predictionID string) (_ *domain.Prediction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpSubmit, start, err) }(time.Now())
	return s.transition(ctx, predictionID, domain.PredictionStatusDraft, domain.PredictionStatusPendingApproval)
}

func (s *service) Approve(ctx context.Context, predictionID string) (_ *domain.Prediction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpApprove, start, err) }(time.Now())

	pred, err := s.load(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if pred.Status == domain.PredictionStatusPendingApproval && pred.IsExpired(now) {
		return nil, fmt.Errorf(ErrMsgDeadlinePassedFmt, domain.ErrDeadlinePassed, pred.ResolveByDatetime.Format(time.RFC3339))
	}

	pred, err = s.transition(ctx, predictionID, domain.PredictionStatusPendingApproval, domain.PredictionStatusActive)
	if err != nil {
		return nil, err
	}

	s.deadlines.set(pred.ID, pred.ResolveByDatetime)
	s.publishAsync(ctx, event.NewLifecycleEvent(event.PredictionActivated, domain.LifecycleNotice{
		PredictionID:      pred.ID,
		From:              domain.PredictionStatusPendingApproval,
		To:                domain.PredictionStatusActive,
		Count:             1,
		ResolveByDatetime: &pred.ResolveByDatetime,
		OccurredAt:        now,
	}))
	return pred, nil
}

func (s *service) Reject(ctx context.Context, predictionID string) (_ *domain.Prediction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpReject, start, err) }(time.Now())
	return s.transition(ctx, predictionID, domain.PredictionStatusPendingApproval, domain.PredictionStatusDraft)
}

func (s *service) CacheStats() CacheStats {
	return s.deadlines.stats()
}

func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgShuttingDown)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf(ErrMsgShutdownTimedOut, ctx.Err())
	}
}

// transition moves a prediction from one status to another with a
// compare-and-swap, then returns the updated row
func (s *service) transition(ctx context.Context, predictionID string, from, to domain.PredictionStatus) (*domain.Prediction, error) {
	n, err := s.repo.UpdatePredictionStatusIfMatches(ctx, predictionID, from, to)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTransitionFailed, err)
	}

	pred, err := s.load(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf(ErrMsgTransitionFmt, domain.ErrInvalidTransition, from, to, pred.Status)
	}

	logger.FromContext(ctx).Info(LogMsgStatusChanged, "prediction_id", predictionID, "from", from, "to", to)
	return pred, nil
}

// load reads a prediction and keeps the deadline cache in step with it
func (s *service) load(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	pred, err := s.repo.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPredictionFailed, err)
	}
	if pred == nil {
		s.deadlines.invalidate(predictionID)
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrPredictionNotFound, predictionID)
	}

	if pred.Status == domain.PredictionStatusActive && !pred.IsExpired(s.now().UTC()) {
		s.deadlines.set(pred.ID, pred.ResolveByDatetime)
	} else {
		s.deadlines.invalidate(pred.ID)
	}
	return pred, nil
}

func (s *service) publishExpired(ctx context.Context, predictionID string, count int64, now time.Time) {
	s.publishAsync(ctx, event.NewLifecycleEvent(event.PredictionExpired, domain.LifecycleNotice{
		PredictionID: predictionID,
		From:         domain.PredictionStatusActive,
		To:           domain.PredictionStatusPending,
		Count:        count,
		OccurredAt:   now,
	}))
}

func (s *service) publishAsync(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.publisher.PublishWithRetry(ctx, evt)
	}()
}

func checkOptions(outcomeType domain.OutcomeType, options []string) error {
	if outcomeType == domain.OutcomeTypeBinary {
		if len(options) > 0 {
			return fmt.Errorf(ErrMsgBinaryOptionsFmt, domain.ErrInvalidPrediction)
		}
		return nil
	}
	if len(options) < domain.MinOptions || len(options) > domain.MaxOptions {
		return fmt.Errorf(ErrMsgOptionCountFmt, domain.ErrInvalidPrediction, domain.MinOptions, domain.MaxOptions, len(options))
	}
	return nil
}
