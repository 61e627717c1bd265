// Package account manages users, their CU balances outside of commitments
// and the reports built from the append-only ledger.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/ledger"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/metrics"
	"github.com/osse101/Credence_Go/internal/repository"
	"github.com/osse101/Credence_Go/internal/validation"
)

// Service defines the interface for account operations
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	AdjustBalance(ctx context.Context, req domain.AdjustmentRequest) (*domain.CuTransaction, error)
	GrantAll(ctx context.Context, amount int64, note string) (int, error)
	History(ctx context.Context, userID string, limit int) ([]domain.CuTransaction, error)
	Stats(ctx context.Context, userID string) (*domain.UserStats, error)
	Reconcile(ctx context.Context, userID string) (*domain.Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error)
}

type service struct {
	repo         repository.Account
	initialGrant int64
	now          func() time.Time
}

// NewService creates a new account service. A non-positive initialGrant
// falls back to domain.DefaultInitialGrantCU.
func NewService(repo repository.Account, initialGrant int64) Service {
	if initialGrant <= 0 {
		initialGrant = domain.DefaultInitialGrantCU
	}
	return &service{
		repo:         repo,
		initialGrant: initialGrant,
		now:          time.Now,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (_ *domain.User, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpRegister, start, err) }(time.Now())

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    strings.TrimSpace(req.Username),
		CuAvailable: s.initialGrant,
		IsBot:       req.IsBot,
		CreatedAt:   now,
	}
	grant := &domain.CuTransaction{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Type:         domain.TransactionInitialGrant,
		Amount:       s.initialGrant,
		BalanceAfter: s.initialGrant,
		Note:         domain.NoteWelcomeBonus,
		CreatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user, grant); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateUserFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgUserRegistered, "user_id", user.ID, "username", user.Username, "grant", s.initialGrant)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrUserNotFound, userID)
	}
	return user, nil
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrUserNotFound, username)
	}
	return user, nil
}

func (s *service) AdjustBalance(ctx context.Context, req domain.AdjustmentRequest) (_ *domain.CuTransaction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpAdjust, start, err) }(time.Now())

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginLedgerTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, fmt.Errorf(ErrMsgNotFoundFmt, domain.ErrUserNotFound, req.UserID)
	}

	available := user.CuAvailable + req.Amount
	if available < 0 {
		return nil, fmt.Errorf(ErrMsgNegativeFmt, domain.ErrInvalidAdjustment, user.CuAvailable, req.Amount)
	}
	if err := tx.UpdateUserBalance(ctx, user.ID, available, user.CuLocked, user.RS); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = domain.NoteAdminAdjustment
	}
	txn := &domain.CuTransaction{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Type:         domain.TransactionAdminAdjustment,
		Amount:       req.Amount,
		BalanceAfter: available,
		Note:         note,
		CreatedAt:    s.now().UTC(),
	}
	if err := tx.AppendTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf(ErrMsgAppendLedgerFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgBalanceAdjusted, "user_id", user.ID, "amount", req.Amount, "balance_after", available)
	return txn, nil
}

// GrantAll credits every user in its own transaction. It stops at the first
// failure and reports how many users were already credited.
func (s *service) GrantAll(ctx context.Context, amount int64, note string) (granted int, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpGrantAll, start, err) }(time.Now())

	if amount < 1 || amount > domain.MaxAdjustmentCU {
		return 0, fmt.Errorf(ErrMsgGrantAmountFmt, domain.ErrInvalidAdjustment, domain.MaxAdjustmentCU, amount)
	}

	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgListUsersFailed, err)
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return granted, err
		}
		if _, err := s.AdjustBalance(ctx, domain.AdjustmentRequest{UserID: id, Amount: amount, Note: note}); err != nil {
			return granted, fmt.Errorf(ErrMsgGrantFailed, id, err)
		}
		granted++
	}

	logger.FromContext(ctx).Info(LogMsgGrantedAll, "users", granted, "amount", amount)
	return granted, nil
}

func (s *service) History(ctx context.Context, userID string, limit int) (_ []domain.CuTransaction, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpHistory, start, err) }(time.Now())

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	txns, err := s.repo.GetTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetHistoryFailed, err)
	}
	return txns, nil
}

func (s *service) Stats(ctx context.Context, userID string) (_ *domain.UserStats, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpStats, start, err) }(time.Now())

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	commitments, err := s.repo.GetUserCommitments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCommitmentsFailed, err)
	}
	return summarize(userID, commitments), nil
}

func (s *service) Reconcile(ctx context.Context, userID string) (_ *domain.Reconciliation, err error) {
	defer func(start time.Time) { metrics.ObserveOperation(OpReconcile, start, err) }(time.Now())

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, count, err := s.repo.SumTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSumLedgerFailed, err)
	}

	rec := &domain.Reconciliation{
		UserID:       user.ID,
		CuAvailable:  user.CuAvailable,
		LedgerSum:    sum,
		Transactions: count,
		Balanced:     sum == user.CuAvailable,
	}
	if !rec.Balanced {
		logger.FromContext(ctx).Warn(LogMsgUnbalanced, "user_id", user.ID, "cu_available", user.CuAvailable, "ledger_sum", sum)
	}
	return rec, nil
}

func (s *service) ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error) {
	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListUsersFailed, err)
	}
	out := make([]domain.Reconciliation, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Reconcile(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// summarize derives a forecasting record from a user's commitments. Settled
// commitments are classified by the sign of their RS change: judged outcomes
// move RS and refunds leave it alone.
func summarize(userID string, commitments []domain.Commitment) *domain.UserStats {
	stats := &domain.UserStats{UserID: userID, Total: len(commitments)}
	var settledCommitted int64
	for _, c := range commitments {
		stats.CuCommitted += c.CuCommitted
		if !c.IsSettled() {
			stats.Pending++
			continue
		}

		stats.Resolved++
		settledCommitted += c.CuCommitted
		if c.CuReturned != nil {
			stats.CuReturned += *c.CuReturned
		}
		var rsChange float64
		if c.RsChange != nil {
			rsChange = *c.RsChange
		}
		stats.TotalRSChange = ledger.SumRS(stats.TotalRSChange, rsChange)
		switch {
		case rsChange > 0:
			stats.Correct++
		case rsChange < 0:
			stats.Wrong++
		default:
			stats.Refunded++
		}
	}

	stats.NetCU = stats.CuReturned - settledCommitted
	if judged := stats.Correct + stats.Wrong; judged > 0 {
		stats.Accuracy = float64(stats.Correct) / float64(judged)
	}
	return stats
}
