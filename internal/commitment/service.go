package commitment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Credence_Go/internal/concurrency"
	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/ledger"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/metrics"
	"github.com/osse101/Credence_Go/internal/repository"
	"github.com/osse101/Credence_Go/internal/validation"
)

// Service defines the interface for commitment operations
type Service interface {
	CreateCommitment(ctx context.Context, userID, predictionID string, req domain.CreateCommitmentRequest) (*domain.Commitment, error)
	UpdateCommitment(ctx context.Context, userID, predictionID string, req domain.UpdateCommitmentRequest) (*domain.CommitmentChange, error)
	RemoveCommitment(ctx context.Context, userID, predictionID string) (*domain.WithdrawalResult, error)
	PreviewRemoval(ctx context.Context, userID, predictionID string) (*domain.PenaltyPreview, error)
	GetPool(ctx context.Context, predictionID string) (*domain.PoolBreakdown, error)
	Shutdown(ctx context.Context) error
}

// Publisher receives notifications once a change is committed
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	repo            repository.Commitment
	publisher       Publisher
	lockManager     *concurrency.LockManager
	maxCommitmentCU int64
	now             func() time.Time
	wg              sync.WaitGroup
}

// NewService creates a new commitment service. publisher may be nil.
func NewService(repo repository.Commitment, publisher Publisher, lockManager *concurrency.LockManager, maxCommitmentCU int64) Service {
	if lockManager == nil {
		lockManager = concurrency.NewLockManager()
	}
	if maxCommitmentCU <= 0 {
		maxCommitmentCU = domain.DefaultMaxCommitmentCU
	}
	return &service{
		repo:            repo,
		publisher:       publisher,
		lockManager:     lockManager,
		maxCommitmentCU: maxCommitmentCU,
		now:             time.Now,
	}
}

func (s *service) CreateCommitment(ctx context.Context, userID, predictionID string, req domain.CreateCommitmentRequest) (_ *domain.Commitment, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpCreate, start, err) }(time.Now())

	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateCalled, "user_id", userID, "prediction_id", predictionID, "cu", req.CuCommitted)

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.CuCommitted > s.maxCommitmentCU {
		return nil, fmt.Errorf(ErrMsgAmountExceedsMaxFmt, domain.ErrInvalidAmount, req.CuCommitted, s.maxCommitmentCU)
	}
	if req.BinaryChoice != nil && req.OptionID != nil {
		return nil, fmt.Errorf(ErrMsgChoiceBothFmt, domain.ErrInvalidChoice)
	}

	unlock := s.lockManager.Lock(concurrency.Key(userID, predictionID))
	defer unlock()

	now := s.now().UTC()
	tx, err := s.repo.BeginLedgerTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pred, err := s.activePrediction(ctx, tx, predictionID, now)
	if err != nil {
		return nil, err
	}
	if pred.AuthorID == userID {
		return nil, domain.ErrSelfCommitment
	}
	choice, err := resolveChoice(pred, req.BinaryChoice, req.OptionID)
	if err != nil {
		return nil, err
	}

	user, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := tx.GetCommitment(ctx, userID, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCommitmentFailed, err)
	}
	if existing != nil {
		return nil, fmt.Errorf(ErrMsgCommitmentMissingFmt, domain.ErrAlreadyCommitted, userID, predictionID)
	}
	if user.CuAvailable < req.CuCommitted {
		return nil, fmt.Errorf(ErrMsgInsufficientFmt, domain.ErrInsufficientFunds, req.CuCommitted, user.CuAvailable)
	}

	c := &domain.Commitment{
		ID:           uuid.NewString(),
		UserID:       userID,
		PredictionID: predictionID,
		CuCommitted:  req.CuCommitted,
		Choice:       choice,
		RsSnapshot:   user.RS,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.CreateCommitment(ctx, c); err != nil {
		return nil, fmt.Errorf(ErrMsgWriteCommitmentFailed, err)
	}

	available := user.CuAvailable - req.CuCommitted
	locked := user.CuLocked + req.CuCommitted
	if err := tx.UpdateUserBalance(ctx, userID, available, locked, user.RS); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}
	if err := appendEntry(ctx, tx, userID, c.ID, domain.TransactionCommitmentLock, -req.CuCommitted, available, domain.NoteCommitmentLocked, now); err != nil {
		return nil, err
	}

	if pred.LockedAt == nil {
		if err := tx.MarkPredictionLocked(ctx, predictionID, now); err != nil {
			return nil, fmt.Errorf(ErrMsgMarkLockedFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.publishAsync(ctx, event.NewCommitmentEvent(event.CommitmentCreated, domain.CommitmentNotice{
		PredictionID: predictionID,
		AuthorID:     pred.AuthorID,
		UserID:       userID,
		CuCommitted:  c.CuCommitted,
		Choice:       c.Choice,
		OccurredAt:   now,
	}))

	log.Info(LogMsgCommitmentCreated, "commitment_id", c.ID, "cu", c.CuCommitted, "choice", c.Choice.String())
	return c, nil
}

func (s *service) UpdateCommitment(ctx context.Context, userID, predictionID string, req domain.UpdateCommitmentRequest) (_ *domain.CommitmentChange, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpUpdate, start, err) }(time.Now())

	log := logger.FromContext(ctx)
	log.Info(LogMsgUpdateCalled, "user_id", userID, "prediction_id", predictionID)

	if req.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}
	if req.BinaryChoice != nil && req.OptionID != nil {
		return nil, fmt.Errorf(ErrMsgChoiceBothFmt, domain.ErrInvalidChoice)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.CuCommitted != nil && *req.CuCommitted > s.maxCommitmentCU {
		return nil, fmt.Errorf(ErrMsgAmountExceedsMaxFmt, domain.ErrInvalidAmount, *req.CuCommitted, s.maxCommitmentCU)
	}

	unlock := s.lockManager.Lock(concurrency.Key(userID, predictionID))
	defer unlock()

	now := s.now().UTC()
	tx, err := s.repo.BeginLedgerTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pred, err := s.activePrediction(ctx, tx, predictionID, now)
	if err != nil {
		return nil, err
	}
	user, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	current, err := tx.GetCommitment(ctx, userID, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCommitmentFailed, err)
	}
	if current == nil {
		return nil, fmt.Errorf(ErrMsgCommitmentMissingFmt, domain.ErrCommitmentNotFound, userID, predictionID)
	}

	choice := current.Choice
	if req.BinaryChoice != nil || req.OptionID != nil {
		if choice, err = resolveChoice(pred, req.BinaryChoice, req.OptionID); err != nil {
			return nil, err
		}
	}
	amount := current.CuCommitted
	if req.CuCommitted != nil {
		amount = *req.CuCommitted
	}

	switched := !choice.SameSide(current.Choice)
	if !switched && amount == current.CuCommitted {
		log.Info(LogMsgCommitmentUnchanged, "commitment_id", current.ID)
		return &domain.CommitmentChange{Commitment: current}, nil
	}

	available, locked := user.CuAvailable, user.CuLocked
	var (
		exit   *domain.PenaltyPreview
		reason domain.WithdrawalReason
	)

	switch {
	case switched:
		// Full exit of the old stake, then a fresh lock on the new side
		exit, err = s.exitPreview(ctx, tx, pred, current, current.CuCommitted)
		if err != nil {
			return nil, err
		}
		if available+exit.CuRefunded < amount {
			return nil, fmt.Errorf(ErrMsgInsufficientFmt, domain.ErrInsufficientFunds, amount, available+exit.CuRefunded)
		}
		reason = domain.WithdrawalReasonSwitch
		available += exit.CuRefunded
		if err := appendEntry(ctx, tx, userID, current.ID, domain.TransactionRefund, exit.CuRefunded, available, domain.NoteExitRefund, now); err != nil {
			return nil, err
		}
		available -= amount
		locked = locked - current.CuCommitted + amount
		if err := appendEntry(ctx, tx, userID, current.ID, domain.TransactionCommitmentLock, -amount, available, domain.NoteCommitmentSwitch, now); err != nil {
			return nil, err
		}

	case amount > current.CuCommitted:
		delta := amount - current.CuCommitted
		if available < delta {
			return nil, fmt.Errorf(ErrMsgInsufficientFmt, domain.ErrInsufficientFunds, delta, available)
		}
		available -= delta
		locked += delta
		if err := appendEntry(ctx, tx, userID, current.ID, domain.TransactionCommitmentLock, -delta, available, domain.NoteCommitmentIncrease, now); err != nil {
			return nil, err
		}

	default:
		removed := current.CuCommitted - amount
		exit, err = s.exitPreview(ctx, tx, pred, current, removed)
		if err != nil {
			return nil, err
		}
		reason = domain.WithdrawalReasonDecrease
		available += exit.CuRefunded
		locked -= removed
		if err := appendEntry(ctx, tx, userID, current.ID, domain.TransactionRefund, exit.CuRefunded, available, domain.NoteExitRefund, now); err != nil {
			return nil, err
		}
	}

	var withdrawal *domain.Withdrawal
	if exit != nil {
		withdrawal = newWithdrawal(current, reason, exit, now)
		if err := tx.RecordWithdrawal(ctx, withdrawal); err != nil {
			return nil, fmt.Errorf(ErrMsgRecordWithdrawalFailed, err)
		}
	}

	updated := *current
	updated.CuCommitted = amount
	updated.Choice = choice
	updated.UpdatedAt = now
	if err := tx.UpdateCommitment(ctx, &updated); err != nil {
		return nil, fmt.Errorf(ErrMsgWriteCommitmentFailed, err)
	}
	if err := tx.UpdateUserBalance(ctx, userID, available, locked, user.RS); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.publishAsync(ctx, event.NewCommitmentEvent(event.CommitmentUpdated, domain.CommitmentNotice{
		PredictionID: predictionID,
		AuthorID:     pred.AuthorID,
		UserID:       userID,
		CuCommitted:  updated.CuCommitted,
		Choice:       updated.Choice,
		OccurredAt:   now,
	}))
	if withdrawal != nil {
		s.publishAsync(ctx, event.NewWithdrawalEvent(withdrawalNotice(withdrawal)))
	}

	log.Info(LogMsgCommitmentUpdated, "commitment_id", updated.ID, "cu", updated.CuCommitted,
		"choice", updated.Choice.String(), "switched", switched)
	return &domain.CommitmentChange{
		Commitment:    &updated,
		Switched:      switched,
		CuLockedDelta: locked - user.CuLocked,
		Penalty:       exit,
	}, nil
}

func (s *service) RemoveCommitment(ctx context.Context, userID, predictionID string) (_ *domain.WithdrawalResult, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpRemove, start, err) }(time.Now())

	log := logger.FromContext(ctx)
	log.Info(LogMsgRemoveCalled, "user_id", userID, "prediction_id", predictionID)

	unlock := s.lockManager.Lock(concurrency.Key(userID, predictionID))
	defer unlock()

	now := s.now().UTC()
	tx, err := s.repo.BeginLedgerTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pred, err := s.activePrediction(ctx, tx, predictionID, now)
	if err != nil {
		return nil, err
	}
	user, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	current, err := tx.GetCommitment(ctx, userID, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCommitmentFailed, err)
	}
	if current == nil {
		return nil, fmt.Errorf(ErrMsgCommitmentMissingFmt, domain.ErrCommitmentNotFound, userID, predictionID)
	}

	exit, err := s.exitPreview(ctx, tx, pred, current, current.CuCommitted)
	if err != nil {
		return nil, err
	}

	available := user.CuAvailable + exit.CuRefunded
	locked := user.CuLocked - current.CuCommitted
	if locked < 0 {
		return nil, fmt.Errorf("%w: user %s locks %d but commitment holds %d", domain.ErrLedgerInvariant, userID, user.CuLocked, current.CuCommitted)
	}

	withdrawal := newWithdrawal(current, domain.WithdrawalReasonRemove, exit, now)
	if err := tx.RecordWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf(ErrMsgRecordWithdrawalFailed, err)
	}
	if err := tx.DeleteCommitment(ctx, current.ID); err != nil {
		return nil, fmt.Errorf(ErrMsgWriteCommitmentFailed, err)
	}
	if err := tx.UpdateUserBalance(ctx, userID, available, locked, user.RS); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}
	if err := appendEntry(ctx, tx, userID, current.ID, domain.TransactionRefund, exit.CuRefunded, available, domain.NoteExitRefund, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.publishAsync(ctx, event.NewWithdrawalEvent(withdrawalNotice(withdrawal)))

	log.Info(LogMsgCommitmentRemoved, "commitment_id", current.ID, "cu_burned", exit.CuBurned, "cu_refunded", exit.CuRefunded)
	return &domain.WithdrawalResult{
		Withdrawal:  withdrawal,
		CuAvailable: available,
		CuLocked:    locked,
	}, nil
}

// PreviewRemoval computes the penalty RemoveCommitment would apply right now.
// It reads the same live pool as the mutating path but takes no locks.
func (s *service) PreviewRemoval(ctx context.Context, userID, predictionID string) (_ *domain.PenaltyPreview, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpPreviewRemove, start, err) }(time.Now())

	pred, err := s.repo.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPredictionFailed, err)
	}
	if pred == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrPredictionNotFound, predictionID)
	}
	// Reject exactly where RemoveCommitment would, without expiring anything
	if pred.Status != domain.PredictionStatusActive {
		return nil, fmt.Errorf(ErrMsgStatusFmt, domain.ErrPredictionNotActive, pred.Status)
	}
	if pred.IsExpired(s.now().UTC()) {
		return nil, fmt.Errorf(ErrMsgDeadlinePassedFmt, domain.ErrPredictionNotActive)
	}
	current, err := s.repo.GetCommitment(ctx, userID, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCommitmentFailed, err)
	}
	if current == nil {
		return nil, fmt.Errorf(ErrMsgCommitmentMissingFmt, domain.ErrCommitmentNotFound, userID, predictionID)
	}
	pool, err := s.repo.GetPoolCommitments(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPoolFailed, err)
	}
	return previewExit(pred, current, current.CuCommitted, pool)
}

func (s *service) GetPool(ctx context.Context, predictionID string) (_ *domain.PoolBreakdown, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpGetPool, start, err) }(time.Now())

	pred, err := s.repo.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPredictionFailed, err)
	}
	if pred == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrPredictionNotFound, predictionID)
	}
	pool, err := s.repo.GetPoolCommitments(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPoolFailed, err)
	}
	breakdown := ledger.Breakdown(predictionID, pool)
	return &breakdown, nil
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

// activePrediction expires the prediction when its deadline has passed and
// then locks it, failing unless it is ACTIVE. An expiry is committed on its
// own so it survives the rejected change.
func (s *service) activePrediction(ctx context.Context, tx repository.LedgerTx, predictionID string, now time.Time) (*domain.Prediction, error) {
	expired, err := tx.ExpirePredictionIfDue(ctx, predictionID, now)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgExpireFailed, err)
	}
	if expired > 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
		}
		logger.FromContext(ctx).Info(LogMsgPredictionExpired, "prediction_id", predictionID)
		s.publishAsync(ctx, event.NewLifecycleEvent(event.PredictionExpired, domain.LifecycleNotice{
			PredictionID: predictionID,
			From:         domain.PredictionStatusActive,
			To:           domain.PredictionStatusPending,
			Count:        expired,
			OccurredAt:   now,
		}))
		return nil, fmt.Errorf(ErrMsgDeadlinePassedFmt, domain.ErrPredictionNotActive)
	}

	pred, err := tx.GetPredictionForUpdate(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPredictionFailed, err)
	}
	if pred == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrPredictionNotFound, predictionID)
	}
	if pred.Status != domain.PredictionStatusActive {
		return nil, fmt.Errorf(ErrMsgStatusFmt, domain.ErrPredictionNotActive, pred.Status)
	}
	return pred, nil
}

// exitPreview prices pulling cu out of current's side against the live pool
func (s *service) exitPreview(ctx context.Context, tx repository.LedgerTx, pred *domain.Prediction, current *domain.Commitment, cu int64) (*domain.PenaltyPreview, error) {
	pool, err := tx.GetPoolCommitments(ctx, pred.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPoolFailed, err)
	}
	return previewExit(pred, current, cu, pool)
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

func previewExit(pred *domain.Prediction, current *domain.Commitment, cu int64, commitments []domain.Commitment) (*domain.PenaltyPreview, error) {
	pool := ledger.ComputePool(commitments, current.Choice)
	preview := &domain.PenaltyPreview{CuCommitted: cu, Pool: pool}

	// Stakes are only at risk once the pool has been locked by a first commitment
	if pred.LockedAt == nil {
		preview.Penalty = domain.Penalty{CuRefunded: cu}
		return preview, nil
	}

	penalty, err := ledger.CalculatePenalty(cu, pool.YourSideCU, pool.TotalPoolCU)
	if err != nil {
		return nil, err
	}
	preview.Penalty = penalty
	return preview, nil
}

func resolveChoice(pred *domain.Prediction, binary *bool, optionID *string) (domain.Choice, error) {
	switch pred.OutcomeType {
	case domain.OutcomeTypeBinary:
		if binary == nil || optionID != nil {
			return domain.Choice{}, fmt.Errorf(ErrMsgChoiceKindFmt, domain.ErrInvalidChoice, pred.OutcomeType, choiceNameBinary)
		}
		return domain.BinaryChoice(*binary), nil
	case domain.OutcomeTypeMultipleChoice:
		if optionID == nil || binary != nil {
			return domain.Choice{}, fmt.Errorf(ErrMsgChoiceKindFmt, domain.ErrInvalidChoice, pred.OutcomeType, choiceNameOption)
		}
		if !pred.HasOption(*optionID) {
			return domain.Choice{}, fmt.Errorf(ErrMsgUnknownOptionFmt, domain.ErrUnknownOption, *optionID)
		}
		return domain.OptionChoice(*optionID), nil
	}
	return domain.Choice{}, fmt.Errorf("%w: unknown outcome type %q", domain.ErrLedgerInvariant, pred.OutcomeType)
}

func lockUser(ctx context.Context, tx repository.LedgerTx, userID string) (*domain.User, error) {
	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrUserNotFound, userID)
	}
	return user, nil
}

// appendEntry writes one ledger row referencing the commitment that moved the CU
func appendEntry(ctx context.Context, tx repository.LedgerTx, userID, commitmentID string, txnType domain.TransactionType, amount, balanceAfter int64, note string, now time.Time) error {
	ref := commitmentID
	err := tx.AppendTransaction(ctx, &domain.CuTransaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         txnType,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		ReferenceID:  &ref,
		Note:         note,
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf(ErrMsgAppendLedgerFailed, err)
	}
	return nil
}

func newWithdrawal(c *domain.Commitment, reason domain.WithdrawalReason, exit *domain.PenaltyPreview, now time.Time) *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:           uuid.NewString(),
		CommitmentID: c.ID,
		UserID:       c.UserID,
		PredictionID: c.PredictionID,
		Reason:       reason,
		CuExited:     exit.CuCommitted,
		CuBurned:     exit.CuBurned,
		CuRefunded:   exit.CuRefunded,
		BurnRate:     exit.BurnRate,
		TotalPoolCU:  exit.TotalPoolCU,
		YourSideCU:   exit.YourSideCU,
		CreatedAt:    now,
	}
}

func withdrawalNotice(w *domain.Withdrawal) domain.WithdrawalNotice {
	return domain.WithdrawalNotice{
		PredictionID: w.PredictionID,
		UserID:       w.UserID,
		Reason:       w.Reason,
		CuBurned:     w.CuBurned,
		CuRefunded:   w.CuRefunded,
		OccurredAt:   w.CreatedAt,
	}
}
