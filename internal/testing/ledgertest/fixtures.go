// Package ledgertest seeds throwaway SQLite stores for service scenario tests.
package ledgertest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Credence_Go/internal/database/sqlite"
	"github.com/osse101/Credence_Go/internal/domain"
)

// NewStore opens a migrated in-memory store that is closed with the test
func NewStore(t testing.TB) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

// SeedUser creates a user holding grant CU, recorded as an initial grant
func SeedUser(t testing.TB, store *sqlite.Store, username string, grant int64) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    username,
		CuAvailable: grant,
		CreatedAt:   now,
	}
	txn := &domain.CuTransaction{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Type:         domain.TransactionInitialGrant,
		Amount:       grant,
		BalanceAfter: grant,
		Note:         domain.NoteWelcomeBonus,
		CreatedAt:    now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user, txn))
	return user
}

// SeedPrediction creates an ACTIVE prediction due in a day. Passing option
// texts makes it multiple choice.
func SeedPrediction(t testing.TB, store *sqlite.Store, authorID string, options ...string) *domain.Prediction {
	t.Helper()

	now := time.Now().UTC()
	p := &domain.Prediction{
		ID:                uuid.NewString(),
		AuthorID:          authorID,
		ClaimText:         "The release ships before the end of the quarter",
		Status:            domain.PredictionStatusActive,
		OutcomeType:       domain.OutcomeTypeBinary,
		ResolveByDatetime: now.Add(24 * time.Hour),
		CreatedAt:         now,
	}
	if len(options) > 0 {
		p.OutcomeType = domain.OutcomeTypeMultipleChoice
		for i, text := range options {
			p.Options = append(p.Options, domain.PredictionOption{
				ID:           uuid.NewString(),
				PredictionID: p.ID,
				Text:         text,
				DisplayOrder: i,
			})
		}
	}
	require.NoError(t, store.CreatePrediction(context.Background(), p))
	return p
}

// User reloads a user, failing the test when it is missing
func User(t testing.TB, store *sqlite.Store, userID string) *domain.User {
	t.Helper()

	u, err := store.GetUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

// AssertReconciled checks that every user's available balance equals the
// sum of their ledger entries
func AssertReconciled(t testing.TB, store *sqlite.Store) {
	t.Helper()

	ctx := context.Background()
	ids, err := store.ListUserIDs(ctx)
	require.NoError(t, err)
	for _, id := range ids {
		u := User(t, store, id)
		sum, _, err := store.SumTransactions(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, u.CuAvailable, sum, "ledger out of balance for %s", u.Username)
	}
}
