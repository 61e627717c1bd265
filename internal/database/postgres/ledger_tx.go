package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/repository"
)

// ledgerTx implements repository.LedgerTx over a pgx transaction
type ledgerTx struct {
	tx pgx.Tx
}

var _ repository.LedgerTx = (*ledgerTx)(nil)

// Commit commits the transaction
func (t *ledgerTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction
// reports domain.ErrMsgTxClosed so repository.SafeRollback stays quiet.
func (t *ledgerTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return errors.New(domain.ErrMsgTxClosed)
	}
	return err
}

func (t *ledgerTx) ExpirePredictionIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error) {
	return expireIfDue(ctx, t.tx, predictionID, now)
}

func (t *ledgerTx) GetPredictionForUpdate(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	return getPrediction(ctx, t.tx, predictionID, true)
}

func (t *ledgerTx) MarkPredictionLocked(ctx context.Context, predictionID string, at time.Time) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE predictions SET locked_at = $2
		WHERE prediction_id = $1 AND locked_at IS NULL
	`, predictionID, at)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkLocked, err)
	}
	return nil
}

// ResolvePrediction writes the resolution only while the prediction is still
// in the expected status. Returns rows affected (0 means another resolver won).
func (t *ledgerTx) ResolvePrediction(ctx context.Context, res *domain.Resolution, expected domain.PredictionStatus) (int64, error) {
	links := res.EvidenceLinks
	if links == nil {
		links = []string{}
	}
	var note *string
	if res.Note != "" {
		note = &res.Note
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE predictions
		SET status = $2, resolution_outcome = $3, resolved_by_id = $4, resolved_at = $5,
		    resolution_note = $6, evidence_links = $7
		WHERE prediction_id = $1 AND status = $8
	`, res.PredictionID, string(res.Status), string(res.Outcome), res.ResolvedByID, res.ResolvedAt,
		note, links, string(expected))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToResolvePrediction, err)
	}
	return tag.RowsAffected(), nil
}

// MarkCorrectOption flags the winning option and clears the rest
func (t *ledgerTx) MarkCorrectOption(ctx context.Context, predictionID, optionID string) error {
	if err := requireID(optionID, ErrMsgFailedToMarkOption); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, `
		UPDATE prediction_options SET is_correct = (option_id = $2::uuid)
		WHERE prediction_id = $1
	`, predictionID, optionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkOption, err)
	}
	return nil
}

func (t *ledgerTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return getUser(ctx, t.tx, userID, true)
}

// UpdateUserBalance stores absolute balances computed by the caller while it
// holds the row lock.
func (t *ledgerTx) UpdateUserBalance(ctx context.Context, userID string, cuAvailable, cuLocked int64, rs float64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users SET cu_available = $2, cu_locked = $3, rs = $4
		WHERE user_id = $1
	`, userID, cuAvailable, cuLocked, rs)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, txn *domain.CuTransaction) error {
	return appendTransaction(ctx, t.tx, txn)
}

func (t *ledgerTx) GetCommitment(ctx context.Context, userID, predictionID string) (*domain.Commitment, error) {
	return getCommitment(ctx, t.tx, userID, predictionID)
}

func (t *ledgerTx) GetPoolCommitments(ctx context.Context, predictionID string) ([]domain.Commitment, error) {
	return getPoolCommitments(ctx, t.tx, predictionID)
}

func (t *ledgerTx) CreateCommitment(ctx context.Context, c *domain.Commitment) error {
	binary, optionID := c.Choice.Columns()
	_, err := t.tx.Exec(ctx, `
		INSERT INTO commitments (commitment_id, user_id, prediction_id, cu_committed, binary_choice, option_id,
		                         rs_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.UserID, c.PredictionID, c.CuCommitted, binary, optionID, c.RsSnapshot, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, ConstraintCommitmentsUserPrediction) {
			return fmt.Errorf("%w: user %s, prediction %s", domain.ErrAlreadyCommitted, c.UserID, c.PredictionID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertCommitment, err)
	}
	return nil
}

func (t *ledgerTx) UpdateCommitment(ctx context.Context, c *domain.Commitment) error {
	binary, optionID := c.Choice.Columns()
	tag, err := t.tx.Exec(ctx, `
		UPDATE commitments
		SET cu_committed = $2, binary_choice = $3, option_id = $4, updated_at = $5
		WHERE commitment_id = $1 AND cu_returned IS NULL
	`, c.ID, c.CuCommitted, binary, optionID, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateCommitment, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCommitmentNotFound, c.ID)
	}
	return nil
}

func (t *ledgerTx) DeleteCommitment(ctx context.Context, commitmentID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM commitments WHERE commitment_id = $1 AND cu_returned IS NULL`, commitmentID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteCommitment, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCommitmentNotFound, commitmentID)
	}
	return nil
}

// SetCommitmentResult settles a commitment once. Returns rows affected; 0
// means the commitment was already settled.
func (t *ledgerTx) SetCommitmentResult(ctx context.Context, commitmentID string, cuReturned int64, rsChange float64) (int64, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE commitments SET cu_returned = $2, rs_change = $3, updated_at = NOW()
		WHERE commitment_id = $1 AND cu_returned IS NULL
	`, commitmentID, cuReturned, rsChange)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToSetResult, err)
	}
	return tag.RowsAffected(), nil
}

func (t *ledgerTx) RecordWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO commitment_withdrawals (withdrawal_id, commitment_id, user_id, prediction_id, reason,
		                                    cu_exited, cu_burned, cu_refunded, burn_rate, total_pool_cu,
		                                    your_side_cu, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, w.ID, w.CommitmentID, w.UserID, w.PredictionID, string(w.Reason), w.CuExited, w.CuBurned, w.CuRefunded,
		w.BurnRate, w.TotalPoolCU, w.YourSideCU, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertWithdrawal, err)
	}
	return nil
}
