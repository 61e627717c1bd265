package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/testing/ledgertest"
)

func TestScenario_AuthoringThroughExpiry(t *testing.T) {
	store := ledgertest.NewStore(t)
	ctx := context.Background()
	svc := NewService(store, nil, CacheConfig{}).(*service)

	author := ledgertest.SeedUser(t, store, "author", 100)
	now := time.Now().UTC()
	svc.now = func() time.Time { return now }

	draft, err := svc.CreateDraft(ctx, domain.NewPredictionRequest{
		AuthorID:          author.ID,
		ClaimText:         "The bridge reopens to traffic by spring",
		OutcomeType:       domain.OutcomeTypeMultipleChoice,
		ResolveByDatetime: now.Add(time.Hour),
		Options:           []string{"March", "April", "Later"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PredictionStatusDraft, draft.Status)

	// Only pending predictions can be approved
	_, err = svc.Approve(ctx, draft.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.SubmitForApproval(ctx, draft.ID)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, draft.ID)
	require.NoError(t, err)
	_, err = svc.SubmitForApproval(ctx, draft.ID)
	require.NoError(t, err)

	active, err := svc.Approve(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PredictionStatusActive, active.Status)
	require.Len(t, active.Options, 3)
	assert.Equal(t, "April", active.Options[1].Text)

	got, err := svc.GetPrediction(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PredictionStatusActive, got.Status)

	now = now.Add(2 * time.Hour)
	got, err = svc.GetPrediction(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PredictionStatusPending, got.Status)

	// Already pending, nothing left to move
	expired, err := svc.TransitionIfExpired(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestScenario_SweepMovesOnlyOverdue(t *testing.T) {
	store := ledgertest.NewStore(t)
	ctx := context.Background()
	svc := NewService(store, nil, CacheConfig{}).(*service)

	author := ledgertest.SeedUser(t, store, "author", 100)
	first := ledgertest.SeedPrediction(t, store, author.ID)
	second := ledgertest.SeedPrediction(t, store, author.ID, "yes", "no")

	n, err := svc.TransitionExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Both seeded predictions are due in a day
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	n, err = svc.TransitionExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, id := range []string{first.ID, second.ID} {
		p, err := store.GetPrediction(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.PredictionStatusPending, p.Status)
	}

	n, err = svc.TransitionExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
