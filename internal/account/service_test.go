package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Credence_Go/internal/commitment"
	"github.com/osse101/Credence_Go/internal/concurrency"
	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/resolution"
	"github.com/osse101/Credence_Go/internal/testing/ledgertest"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestRegister_GrantsWelcomeBonus(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 0)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Username: "  alice "})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(domain.DefaultInitialGrantCU), user.CuAvailable)

	history, err := svc.History(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TransactionInitialGrant, history[0].Type)
	assert.Equal(t, domain.NoteWelcomeBonus, history[0].Note)

	byName, err := svc.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 50)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Username: "alice"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterRequest{Username: "alice"})
	require.ErrorIs(t, err, domain.ErrUserExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestRegister_InvalidUsername(t *testing.T) {
	svc := NewService(ledgertest.NewStore(t), 0)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Username: "a"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustBalance(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 0)
	ctx := context.Background()
	user := ledgertest.SeedUser(t, store, "bob", 100)

	txn, err := svc.AdjustBalance(ctx, domain.AdjustmentRequest{UserID: user.ID, Amount: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(125), txn.BalanceAfter)
	assert.Equal(t, domain.NoteAdminAdjustment, txn.Note)

	txn, err = svc.AdjustBalance(ctx, domain.AdjustmentRequest{UserID: user.ID, Amount: -125, Note: "Clawback"})
	require.NoError(t, err)
	assert.Zero(t, txn.BalanceAfter)
	assert.Equal(t, "Clawback", txn.Note)

	_, err = svc.AdjustBalance(ctx, domain.AdjustmentRequest{UserID: user.ID, Amount: -1})
	require.ErrorIs(t, err, domain.ErrInvalidAdjustment)
	assert.Zero(t, ledgertest.User(t, store, user.ID).CuAvailable)

	ledgertest.AssertReconciled(t, store)
}

func TestAdjustBalance_Rejections(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 0)
	ctx := context.Background()
	user := ledgertest.SeedUser(t, store, "bob", 100)

	tests := []struct {
		name    string
		req     domain.AdjustmentRequest
		wantErr error
	}{
		{"zero amount", domain.AdjustmentRequest{UserID: user.ID}, domain.ErrInvalidInput},
		{"above maximum", domain.AdjustmentRequest{UserID: user.ID, Amount: domain.MaxAdjustmentCU + 1}, domain.ErrInvalidInput},
		{"below minimum", domain.AdjustmentRequest{UserID: user.ID, Amount: -domain.MaxAdjustmentCU - 1}, domain.ErrInvalidInput},
		{"unknown user", domain.AdjustmentRequest{UserID: "00000000-0000-0000-0000-000000000000", Amount: 5}, domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AdjustBalance(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGrantAll(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 0)
	ctx := context.Background()
	a := ledgertest.SeedUser(t, store, "a", 100)
	b := ledgertest.SeedUser(t, store, "b", 10)

	n, err := svc.GrantAll(ctx, 5, "Season bonus")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(105), ledgertest.User(t, store, a.ID).CuAvailable)
	assert.Equal(t, int64(15), ledgertest.User(t, store, b.ID).CuAvailable)

	_, err = svc.GrantAll(ctx, 0, "")
	require.ErrorIs(t, err, domain.ErrInvalidAdjustment)

	ledgertest.AssertReconciled(t, store)
}

func TestHistory_LimitAndOrder(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 0)
	ctx := context.Background()
	user := ledgertest.SeedUser(t, store, "carol", 100)

	for i := int64(1); i <= 3; i++ {
		_, err := svc.AdjustBalance(ctx, domain.AdjustmentRequest{UserID: user.ID, Amount: i})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(3), history[0].Amount, "newest first")
	assert.Equal(t, int64(106), history[0].BalanceAfter)

	_, err = svc.History(ctx, "00000000-0000-0000-0000-000000000000", 10)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStatsAndReconcile_AfterResolution(t *testing.T) {
	store := ledgertest.NewStore(t)
	svc := NewService(store, 0)
	ctx := context.Background()
	commitments := commitment.NewService(store, nil, concurrency.NewLockManager(), 0)
	resolutions := resolution.NewService(store, nil, nil)

	author := ledgertest.SeedUser(t, store, "author", 100)
	user := ledgertest.SeedUser(t, store, "dave", 100)
	won := ledgertest.SeedPrediction(t, store, author.ID)
	open := ledgertest.SeedPrediction(t, store, author.ID)

	yes := true
	_, err := commitments.CreateCommitment(ctx, user.ID, won.ID, domain.CreateCommitmentRequest{CuCommitted: 10, BinaryChoice: &yes})
	require.NoError(t, err)
	_, err = commitments.CreateCommitment(ctx, user.ID, open.ID, domain.CreateCommitmentRequest{CuCommitted: 20, BinaryChoice: &yes})
	require.NoError(t, err)
	_, err = resolutions.Resolve(ctx, domain.ResolveRequest{PredictionID: won.ID, ResolverID: author.ID, Outcome: domain.OutcomeCorrect})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Correct)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1.0, stats.Accuracy)
	assert.Equal(t, int64(5), stats.NetCU)
	assert.Equal(t, 1.0, stats.TotalRSChange)

	recs, err := svc.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.True(t, rec.Balanced, rec.UserID)
	}

	rec, err := svc.Reconcile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(85), rec.CuAvailable)
	assert.Equal(t, 4, rec.Transactions)
}

func TestSummarize(t *testing.T) {
	commitments := []domain.Commitment{
		{CuCommitted: 10, CuReturned: int64Ptr(15), RsChange: float64Ptr(1.0)},
		{CuCommitted: 20, CuReturned: int64Ptr(0), RsChange: float64Ptr(-1.0)},
		{CuCommitted: 30, CuReturned: int64Ptr(0), RsChange: float64Ptr(-1.5)},
		{CuCommitted: 5, CuReturned: int64Ptr(5), RsChange: float64Ptr(0)},
		{CuCommitted: 8},
	}

	stats := summarize("u", commitments)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Resolved)
	assert.Equal(t, 1, stats.Correct)
	assert.Equal(t, 2, stats.Wrong)
	assert.Equal(t, 1, stats.Refunded)
	assert.Equal(t, 1, stats.Pending)
	assert.InDelta(t, 1.0/3.0, stats.Accuracy, 1e-9)
	assert.Equal(t, int64(73), stats.CuCommitted)
	assert.Equal(t, int64(20), stats.CuReturned)
	assert.Equal(t, int64(-45), stats.NetCU)
	assert.Equal(t, -1.5, stats.TotalRSChange)
}

func TestSummarize_NoJudgedOutcomes(t *testing.T) {
	stats := summarize("u", nil)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Accuracy)
}
