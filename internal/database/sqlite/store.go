package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Credence_Go/internal/database"
	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/repository"
)

// Store implements repository.Store on an embedded SQLite database.
// It holds a single connection, so every transaction is serialized.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// Open opens (or creates) the database at path, applies migrations and
// returns a ready Store. Use MemoryPath for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToConfigure, err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToConfigure, err)
	}

	if err := database.MigrateSQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		logger.FromContext(context.Background()).Warn(LogMsgCloseFailed, "error", err)
	}
}

// BeginLedgerTx starts a transaction on the single connection
func (s *Store) BeginLedgerTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		// A nil *ledgerTx must not leak out as a non-nil interface
		return nil, err
	}
	return tx, nil
}

func (s *Store) begin(ctx context.Context) (*ledgerTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &ledgerTx{tx: tx}, nil
}

// GetPrediction retrieves a prediction and its options. Returns nil, nil when missing
func (s *Store) GetPrediction(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	return getPrediction(ctx, s.db, predictionID)
}

// CreatePrediction inserts a prediction together with its options
func (s *Store) CreatePrediction(ctx context.Context, p *domain.Prediction) error {
	links, err := encodeLinks(p.EvidenceLinks)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPrediction, err)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.tx.ExecContext(ctx, `
		INSERT INTO predictions (prediction_id, author_id, claim_text, status, outcome_type, resolve_by,
		                         locked_at, evidence_links, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.AuthorID, p.ClaimText, string(p.Status), string(p.OutcomeType), formatTime(p.ResolveByDatetime),
		formatTimePtr(p.LockedAt), links, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPrediction, err)
	}

	for _, o := range p.Options {
		_, err = tx.tx.ExecContext(ctx, `
			INSERT INTO prediction_options (option_id, prediction_id, option_text, display_order)
			VALUES (?, ?, ?, ?)
		`, o.ID, p.ID, o.Text, o.DisplayOrder)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertOption, err)
		}
	}

	return tx.Commit(ctx)
}

// ExpireActive moves every overdue ACTIVE prediction to PENDING
func (s *Store) ExpireActive(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE predictions SET status = ?
		WHERE status = ? AND resolve_by < ?
	`, string(domain.PredictionStatusPending), string(domain.PredictionStatusActive), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToExpirePredictions, err)
	}
	return res.RowsAffected()
}

// ExpireIfDue moves a single overdue ACTIVE prediction to PENDING
func (s *Store) ExpireIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error) {
	return expireIfDue(ctx, s.db, predictionID, now)
}

// UpdatePredictionStatusIfMatches performs a compare-and-swap on prediction status
func (s *Store) UpdatePredictionStatusIfMatches(ctx context.Context, predictionID string, expected, next domain.PredictionStatus) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE predictions SET status = ? WHERE prediction_id = ? AND status = ?
	`, string(next), predictionID, string(expected))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateStatus, err)
	}
	return res.RowsAffected()
}

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
	return listCommitments(ctx, s.db, `SELECT `+commitmentColumns+` FROM commitments
		WHERE user_id = ? ORDER BY created_at DESC, commitment_id`, userID)
}

// CreateUser inserts a user and its opening ledger entry atomically
func (s *Store) CreateUser(ctx context.Context, user *domain.User, grant *domain.CuTransaction) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.tx.ExecContext(ctx, `
		INSERT INTO users (user_id, username, cu_available, cu_locked, rs, is_bot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.CuAvailable, user.CuLocked, user.RS, user.IsBot, formatTime(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err, uniqueUsername) || isUniqueViolation(err, "users.user_id") {
			return fmt.Errorf("%w: %s", domain.ErrUserExists, user.Username)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertUser, err)
	}

	if grant != nil {
		if err := appendTransaction(ctx, tx.tx, grant); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetUser retrieves a user by id. Returns nil, nil when missing
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return getUser(ctx, s.db, userID)
}

// GetUserByUsername retrieves a user by username. Returns nil, nil when missing
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

// ListUserIDs returns every user id in ascending order
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
	}
	return ids, nil
}

// GetTransactions returns a user's ledger entries, newest first
func (s *Store) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.CuTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM cu_transactions
		WHERE user_id = ? ORDER BY seq DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransactions, err)
	}
	defer rows.Close()

	var out []domain.CuTransaction
	for rows.Next() {
		var (
			t         domain.CuTransaction
			txnType   string
			refID     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &txnType, &t.Amount, &t.BalanceAfter, &refID, &t.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransactions, err)
		}
		t.Type = domain.TransactionType(txnType)
		t.ReferenceID = nullStringPtr(refID)
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransactions, err)
	}
	return out, nil
}

// SumTransactions returns the sum of a user's ledger amounts and the entry count
func (s *Store) SumTransactions(ctx context.Context, userID string) (int64, int, error) {
	var (
		sum   int64
		count int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM cu_transactions WHERE user_id = ?
	`, userID).Scan(&sum, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToSumTransactions, err)
	}
	return sum, count, nil
}
