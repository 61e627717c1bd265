package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/repository"
)

// Store implements repository.Store for PostgreSQL
type Store struct {
	db *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a new Store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the pool
func (s *Store) Close() {
	s.db.Close()
}

// BeginLedgerTx starts a read-committed transaction. Row locks taken through
// the returned LedgerTx serialize writers on the same prediction.
func (s *Store) BeginLedgerTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &ledgerTx{tx: tx}, nil
}

// ---- Predictions ----

// GetPrediction retrieves a prediction and its options. Returns nil, nil when missing
func (s *Store) GetPrediction(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	return getPrediction(ctx, s.db, predictionID, false)
}

// CreatePrediction inserts a prediction together with its options
func (s *Store) CreatePrediction(ctx context.Context, p *domain.Prediction) error {
	if err := requireID(p.AuthorID, ErrMsgInvalidUserID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	links := p.EvidenceLinks
	if links == nil {
		links = []string{}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO predictions (prediction_id, author_id, claim_text, status, outcome_type, resolve_by,
		                         evidence_links, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.AuthorID, p.ClaimText, string(p.Status), string(p.OutcomeType), p.ResolveByDatetime, links, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPrediction, err)
	}

	for _, o := range p.Options {
		_, err = tx.Exec(ctx, `
			INSERT INTO prediction_options (option_id, prediction_id, option_text, display_order)
			VALUES ($1, $2, $3, $4)
		`, o.ID, p.ID, o.Text, o.DisplayOrder)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertOption, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// ExpireActive moves every overdue ACTIVE prediction to PENDING
func (s *Store) ExpireActive(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE predictions SET status = $1
		WHERE status = $2 AND resolve_by < $3
	`, string(domain.PredictionStatusPending), string(domain.PredictionStatusActive), now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToExpirePredictions, err)
	}
	return tag.RowsAffected(), nil
}

// ExpireIfDue moves a single overdue ACTIVE prediction to PENDING
func (s *Store) ExpireIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error) {
	return expireIfDue(ctx, s.db, predictionID, now)
}

// UpdatePredictionStatusIfMatches performs a compare-and-swap on prediction status.
// Returns the number of rows affected (0 if the status didn't match)
func (s *Store) UpdatePredictionStatusIfMatches(ctx context.Context, predictionID string, expected, next domain.PredictionStatus) (int64, error) {
	if !validID(predictionID) {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE predictions SET status = $3
		WHERE prediction_id = $1 AND status = $2
	`, predictionID, string(expected), string(next))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateStatus, err)
	}
	return tag.RowsAffected(), nil
}

// ---- Commitments ----

// GetCommitment retrieves a user's commitment on a prediction. Returns nil, nil when missing
func (s *Store) GetCommitment(ctx context.Context, userID, predictionID string) (*domain.Commitment, error) {
	return getCommitment(ctx, s.db, userID, predictionID)
}

// GetPoolCommitments returns every commitment on a prediction
func (s *Store) GetPoolCommitments(ctx context.Context, predictionID string) ([]domain.Commitment, error) {
	return getPoolCommitments(ctx, s.db, predictionID)
}

// GetUserCommitments returns a user's commitments, newest first
func (s *Store) GetUserCommitments(ctx context.Context, userID string) ([]domain.Commitment, error) {
	if !validID(userID) {
		return nil, nil
	}
	return listCommitments(ctx, s.db, `SELECT `+commitmentColumns+` FROM commitments
		WHERE user_id = $1 ORDER BY created_at DESC, commitment_id`, userID)
}

// ---- Users ----

// CreateUser inserts a user and its opening ledger entry atomically
func (s *Store) CreateUser(ctx context.Context, user *domain.User, grant *domain.CuTransaction) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (user_id, username, cu_available, cu_locked, rs, is_bot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Username, user.CuAvailable, user.CuLocked, user.RS, user.IsBot, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: %s", domain.ErrUserExists, user.Username)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertUser, err)
	}

	if grant != nil {
		if err := appendTransaction(ctx, tx, grant); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// GetUser retrieves a user by id. Returns nil, nil when missing
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return getUser(ctx, s.db, userID, false)
}

// GetUserByUsername retrieves a user by username. Returns nil, nil when missing
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

// ListUserIDs returns every user id in ascending order
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id::text FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
	}
	return ids, nil
}

// GetTransactions returns a user's ledger entries, newest first
func (s *Store) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.CuTransaction, error) {
	if !validID(userID) {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+transactionColumns+` FROM cu_transactions
		WHERE user_id = $1 ORDER BY seq DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransactions, err)
	}
	defer rows.Close()

	var out []domain.CuTransaction
	for rows.Next() {
		var (
			t       domain.CuTransaction
			txnType string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &txnType, &t.Amount, &t.BalanceAfter, &t.ReferenceID, &t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransactions, err)
		}
		t.Type = domain.TransactionType(txnType)
		t.CreatedAt = utc(t.CreatedAt)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransactions, err)
	}
	return out, nil
}

// SumTransactions returns the sum of a user's ledger amounts and the entry count
func (s *Store) SumTransactions(ctx context.Context, userID string) (int64, int, error) {
	if !validID(userID) {
		return 0, 0, nil
	}
	var (
		sum   int64
		count int
	)
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::bigint, COUNT(*)::int FROM cu_transactions WHERE user_id = $1
	`, userID).Scan(&sum, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToSumTransactions, err)
	}
	return sum, count, nil
}
