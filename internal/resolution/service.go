// Package resolution settles every commitment of a prediction in one
// transaction once a resolver gives the verdict.
package resolution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/ledger"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/metrics"
	"github.com/osse101/Credence_Go/internal/repository"
	"github.com/osse101/Credence_Go/internal/validation"
)

// Service defines the interface for resolving predictions
type Service interface {
	Resolve(ctx context.Context, req domain.ResolveRequest) (*domain.ResolutionSummary, error)
	Shutdown(ctx context.Context) error
}

// Authorizer decides whether a caller may resolve a prediction
type Authorizer interface {
	CanResolve(ctx context.Context, resolverID string, pred *domain.Prediction) (bool, error)
}

// Publisher receives the resolution notice once it is committed
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	repo       repository.Resolution
	publisher  Publisher
	authorizer Authorizer
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewService creates a new resolution service. publisher and authorizer may be nil;
// without an authorizer any resolver is accepted.
func NewService(repo repository.Resolution, publisher Publisher, authorizer Authorizer) Service {
	return &service{
		repo:       repo,
		publisher:  publisher,
		authorizer: authorizer,
		now:        time.Now,
	}
}

func (s *service) Resolve(ctx context.Context, req domain.ResolveRequest) (_ *domain.ResolutionSummary, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpResolve, start, err) }(time.Now())

	log := logger.FromContext(ctx)
	log.Info(LogMsgResolveCalled, "prediction_id", req.PredictionID, "resolver_id", req.ResolverID, "outcome", req.Outcome)

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	status, err := terminalStatus(req.Outcome)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tx, err := s.repo.BeginLedgerTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pred, err := tx.GetPredictionForUpdate(ctx, req.PredictionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPredictionFailed, err)
	}
	if pred == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrPredictionNotFound, req.PredictionID)
	}
	if err := s.authorize(ctx, req.ResolverID, pred); err != nil {
		return nil, err
	}
	if err := checkResolvable(pred, req); err != nil {
		return nil, err
	}

	n, err := tx.ResolvePrediction(ctx, &domain.Resolution{
		PredictionID:    pred.ID,
		Status:          status,
		Outcome:         req.Outcome,
		ResolvedByID:    req.ResolverID,
		ResolvedAt:      now,
		Note:            req.Note,
		EvidenceLinks:   req.EvidenceLinks,
		WinningOptionID: req.WinningOptionID,
	}, pred.Status)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgResolveFailed, err)
	}
	if n == 0 {
		return nil, fmt.Errorf(ErrMsgStatusFmt, domain.ErrAlreadyResolved, pred.Status)
	}
	if req.WinningOptionID != "" {
		if err := tx.MarkCorrectOption(ctx, pred.ID, req.WinningOptionID); err != nil {
			return nil, fmt.Errorf(ErrMsgMarkOptionFailed, err)
		}
	}

	// Rows come back ordered by user id, which is the user lock order
	commitments, err := tx.GetPoolCommitments(ctx, pred.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetPoolFailed, err)
	}

	summary := &domain.ResolutionSummary{
		PredictionID: pred.ID,
		Status:       status,
		Outcome:      req.Outcome,
		Settlements:  make([]domain.Settlement, 0, len(commitments)),
	}
	userIDs := make([]string, 0, len(commitments))
	for i := range commitments {
		st, err := settle(ctx, tx, &commitments[i], req, now)
		if err != nil {
			return nil, err
		}
		addSettlement(summary, st, req.Outcome)
		userIDs = append(userIDs, st.UserID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.publishAsync(ctx, event.NewResolutionEvent(domain.ResolutionNotice{
		PredictionID: pred.ID,
		Outcome:      req.Outcome,
		Status:       status,
		Settled:      summary.Settled,
		NetCU:        summary.NetCU,
		UserIDs:      userIDs,
		OccurredAt:   now,
	}))

	log.Info(LogMsgPredictionResolved, "prediction_id", pred.ID, "status", status, "settled", summary.Settled,
		"total_committed", summary.TotalCommitted, "total_returned", summary.TotalReturned, "net_cu", summary.NetCU)
	return summary, nil
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

func (s *service) authorize(ctx context.Context, resolverID string, pred *domain.Prediction) error {
	if s.authorizer == nil {
		return nil
	}
	ok, err := s.authorizer.CanResolve(ctx, resolverID, pred)
	if err != nil {
		return fmt.Errorf(ErrMsgAuthorizeFailed, err)
	}
	if !ok {
		return fmt.Errorf(ErrMsgForbiddenFmt, domain.ErrResolverForbidden, resolverID)
	}
	return nil
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

// checkResolvable rejects closed predictions and winning options that do not
// fit the outcome type
func checkResolvable(pred *domain.Prediction, req domain.ResolveRequest) error {
	if pred.Status.IsTerminal() {
		return fmt.Errorf(ErrMsgStatusFmt, domain.ErrAlreadyResolved, pred.Status)
	}
	if !pred.Status.IsOpen() {
		return fmt.Errorf(ErrMsgStatusFmt, domain.ErrPredictionNotOpen, pred.Status)
	}

	if pred.OutcomeType == domain.OutcomeTypeBinary || !req.Outcome.IsJudged() {
		if req.WinningOptionID != "" {
			return domain.ErrWinningOptionForbidden
		}
		return nil
	}
	if req.WinningOptionID == "" {
		return domain.ErrWinningOptionRequired
	}
	if !pred.HasOption(req.WinningOptionID) {
		return fmt.Errorf(ErrMsgUnknownOptionFmt, domain.ErrUnknownOption, req.WinningOptionID)
	}
	return nil
}

// settle pays out one commitment and moves its CU out of the user's lock
func settle(ctx context.Context, tx repository.LedgerTx, c *domain.Commitment, req domain.ResolveRequest, now time.Time) (domain.Settlement, error) {
	wasCorrect := ledger.WasCorrect(c.Choice, req.Outcome, req.WinningOptionID)
	payout, err := ledger.CalculateResolutionPayout(c.CuCommitted, wasCorrect, req.Outcome)
	if err != nil {
		return domain.Settlement{}, err
	}

	user, err := tx.GetUserForUpdate(ctx, c.UserID)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return domain.Settlement{}, fmt.Errorf(ErrMsgUserMissingFmt, domain.ErrLedgerInvariant, c.UserID, c.ID)
	}
	locked := user.CuLocked - c.CuCommitted
	if locked < 0 {
		return domain.Settlement{}, fmt.Errorf(ErrMsgLockUnderflowFmt, domain.ErrLedgerInvariant, user.ID, user.CuLocked, c.ID, c.CuCommitted)
	}

	n, err := tx.SetCommitmentResult(ctx, c.ID, payout.CuReturned, payout.RsChange)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf(ErrMsgSettleFailed, err)
	}
	if n == 0 {
		return domain.Settlement{}, fmt.Errorf(ErrMsgAlreadySettledFmt, domain.ErrLedgerInvariant, c.ID)
	}

	available := user.CuAvailable + payout.CuReturned
	rs := ledger.ApplyRSChange(user.RS, payout.RsChange)
	if err := tx.UpdateUserBalance(ctx, user.ID, available, locked, rs); err != nil {
		return domain.Settlement{}, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}

	txnType := domain.TransactionCommitmentUnlock
	if !req.Outcome.IsJudged() {
		txnType = domain.TransactionRefund
	}
	ref := c.ID
	err = tx.AppendTransaction(ctx, &domain.CuTransaction{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Type:         txnType,
		Amount:       payout.CuReturned,
		BalanceAfter: available,
		ReferenceID:  &ref,
		Note:         fmt.Sprintf(domain.NoteResolutionFormat, req.Outcome),
		CreatedAt:    now,
	})
	if err != nil {
		return domain.Settlement{}, fmt.Errorf(ErrMsgAppendLedgerFailed, err)
	}

	return domain.Settlement{
		CommitmentID: c.ID,
		UserID:       user.ID,
		CuCommitted:  c.CuCommitted,
		WasCorrect:   wasCorrect,
		CuReturned:   payout.CuReturned,
		RsChange:     payout.RsChange,
		RsAfter:      rs,
	}, nil
}

func addSettlement(summary *domain.ResolutionSummary, st domain.Settlement, outcome domain.ResolutionOutcome) {
	summary.Settled++
	summary.TotalCommitted += st.CuCommitted
	summary.TotalReturned += st.CuReturned
	summary.NetCU = summary.TotalReturned - summary.TotalCommitted
	summary.TotalRSChange = ledger.SumRS(summary.TotalRSChange, st.RsChange)
	if outcome.IsJudged() {
		if st.WasCorrect {
			summary.Winners++
		} else {
			summary.Losers++
		}
	}
	summary.Settlements = append(summary.Settlements, st)
}

// terminalStatus maps an outcome to the status a resolved prediction takes
func terminalStatus(outcome domain.ResolutionOutcome) (domain.PredictionStatus, error) {
	status, ok := outcome.TerminalStatus()
	if !ok {
		return "", fmt.Errorf(ErrMsgInvalidOutcomeFmt, domain.ErrInvalidOutcome, outcome)
	}
	return status, nil
}
