package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/repository"
)

// ledgerTx implements repository.LedgerTx over a database/sql transaction
type ledgerTx struct {
	tx *sql.Tx
}

var _ repository.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return errors.New(domain.ErrMsgTxClosed)
	}
	return err
}

func (t *ledgerTx) ExpirePredictionIfDue(ctx context.Context, predictionID string, now time.Time) (int64, error) {
	return expireIfDue(ctx, t.tx, predictionID, now)
}

func (t *ledgerTx) GetPredictionForUpdate(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	return getPrediction(ctx, t.tx, predictionID)
}

func (t *ledgerTx) MarkPredictionLocked(ctx context.Context, predictionID string, at time.Time) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE predictions SET locked_at = ? WHERE prediction_id = ? AND locked_at IS NULL
	`, formatTime(at), predictionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkLocked, err)
	}
	return nil
}

func (t *ledgerTx) ResolvePrediction(ctx context.Context, res *domain.Resolution, expected domain.PredictionStatus) (int64, error) {
	links, err := encodeLinks(res.EvidenceLinks)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToResolvePrediction, err)
	}
	var note *string
	if res.Note != "" {
		note = &res.Note
	}
	result, err := t.tx.ExecContext(ctx, `
		UPDATE predictions
		SET status = ?, resolution_outcome = ?, resolved_by_id = ?, resolved_at = ?,
		    resolution_note = ?, evidence_links = ?
		WHERE prediction_id = ? AND status = ?
	`, string(res.Status), string(res.Outcome), res.ResolvedByID, formatTime(res.ResolvedAt),
		note, links, res.PredictionID, string(expected))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToResolvePrediction, err)
	}
	return result.RowsAffected()
}

func (t *ledgerTx) MarkCorrectOption(ctx context.Context, predictionID, optionID string) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE prediction_options SET is_correct = (option_id = ?) WHERE prediction_id = ?
	`, optionID, predictionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkOption, err)
	}
	return nil
}

func (t *ledgerTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return getUser(ctx, t.tx, userID)
}

func (t *ledgerTx) UpdateUserBalance(ctx context.Context, userID string, cuAvailable, cuLocked int64, rs float64) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE users SET cu_available = ?, cu_locked = ?, rs = ? WHERE user_id = ?
	`, cuAvailable, cuLocked, rs, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	if n == 0 {
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
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO commitments (commitment_id, user_id, prediction_id, cu_committed, binary_choice, option_id,
		                         rs_snapshot, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.PredictionID, c.CuCommitted, binary, optionID, c.RsSnapshot,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err, uniqueCommitment) {
			return fmt.Errorf("%w: user %s, prediction %s", domain.ErrAlreadyCommitted, c.UserID, c.PredictionID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertCommitment, err)
	}
	return nil
}

func (t *ledgerTx) UpdateCommitment(ctx context.Context, c *domain.Commitment) error {
	binary, optionID := c.Choice.Columns()
	res, err := t.tx.ExecContext(ctx, `
		UPDATE commitments SET cu_committed = ?, binary_choice = ?, option_id = ?, updated_at = ?
		WHERE commitment_id = ? AND cu_returned IS NULL
	`, c.CuCommitted, binary, optionID, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateCommitment, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCommitmentNotFound, c.ID)
	}
	return nil
}

func (t *ledgerTx) DeleteCommitment(ctx context.Context, commitmentID string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM commitments WHERE commitment_id = ? AND cu_returned IS NULL`, commitmentID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteCommitment, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCommitmentNotFound, commitmentID)
	}
	return nil
}

func (t *ledgerTx) SetCommitmentResult(ctx context.Context, commitmentID string, cuReturned int64, rsChange float64) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE commitments SET cu_returned = ?, rs_change = ?, updated_at = ?
		WHERE commitment_id = ? AND cu_returned IS NULL
	`, cuReturned, rsChange, formatTime(time.Now()), commitmentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToSetResult, err)
	}
	return res.RowsAffected()
}

func (t *ledgerTx) RecordWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO commitment_withdrawals (withdrawal_id, commitment_id, user_id, prediction_id, reason,
		                                    cu_exited, cu_burned, cu_refunded, burn_rate, total_pool_cu,
		                                    your_side_cu, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.CommitmentID, w.UserID, w.PredictionID, string(w.Reason), w.CuExited, w.CuBurned, w.CuRefunded,
		w.BurnRate, w.TotalPoolCU, w.YourSideCU, formatTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertWithdrawal, err)
	}
	return nil
}
