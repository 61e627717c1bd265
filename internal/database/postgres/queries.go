package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Credence_Go/internal/domain"
)

const (
	userColumns = `user_id::text, username, cu_available, cu_locked, rs, is_bot, created_at`

	predictionColumns = `prediction_id::text, author_id::text, claim_text, status, outcome_type, resolve_by,
		locked_at, resolved_at, resolved_by_id, resolution_outcome, resolution_note, evidence_links, created_at`

	optionColumns = `option_id::text, prediction_id::text, option_text, display_order, is_correct`

	commitmentColumns = `commitment_id::text, user_id::text, prediction_id::text, cu_committed, binary_choice,
		option_id::text, rs_snapshot, cu_returned, rs_change, created_at, updated_at`

	transactionColumns = `transaction_id::text, user_id::text, type, amount, balance_after, reference_id::text, note, created_at`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.CuAvailable, &u.CuLocked, &u.RS, &u.IsBot, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = utc(u.CreatedAt)
	return &u, nil
}

func getUser(ctx context.Context, q querier, userID string, forUpdate bool) (*domain.User, error) {
	if !validID(userID) {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	u, err := scanUser(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

func scanPrediction(row pgx.Row) (*domain.Prediction, error) {
	var (
		p       domain.Prediction
		status  string
		outcome string
		result  *string
	)
	err := row.Scan(&p.ID, &p.AuthorID, &p.ClaimText, &status, &outcome, &p.ResolveByDatetime,
		&p.LockedAt, &p.ResolvedAt, &p.ResolvedByID, &result, &p.ResolutionNote, &p.EvidenceLinks, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = domain.PredictionStatus(status)
	p.OutcomeType = domain.OutcomeType(outcome)
	if result != nil {
		r := domain.ResolutionOutcome(*result)
		p.ResolutionOutcome = &r
	}
	p.ResolveByDatetime = utc(p.ResolveByDatetime)
	p.CreatedAt = utc(p.CreatedAt)
	p.LockedAt = ptrUTC(p.LockedAt)
	p.ResolvedAt = ptrUTC(p.ResolvedAt)
	return &p, nil
}

func getPrediction(ctx context.Context, q querier, predictionID string, forUpdate bool) (*domain.Prediction, error) {
	if !validID(predictionID) {
		return nil, nil
	}
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE prediction_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanPrediction(q.QueryRow(ctx, query, predictionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrediction, err)
	}

	options, err := getOptions(ctx, q, predictionID)
	if err != nil {
		return nil, err
	}
	p.Options = options
	return p, nil
}

func getOptions(ctx context.Context, q querier, predictionID string) ([]domain.PredictionOption, error) {
	rows, err := q.Query(ctx, `SELECT `+optionColumns+` FROM prediction_options
		WHERE prediction_id = $1 ORDER BY display_order, option_id`, predictionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOptions, err)
	}
	defer rows.Close()

	var options []domain.PredictionOption
	for rows.Next() {
		var o domain.PredictionOption
		if err := rows.Scan(&o.ID, &o.PredictionID, &o.Text, &o.DisplayOrder, &o.IsCorrect); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOptions, err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOptions, err)
	}
	return options, nil
}

func scanCommitment(row pgx.Row) (*domain.Commitment, error) {
	var (
		c        domain.Commitment
		binary   *bool
		optionID *string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.PredictionID, &c.CuCommitted, &binary, &optionID,
		&c.RsSnapshot, &c.CuReturned, &c.RsChange, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	choice, err := domain.ChoiceFromColumns(binary, optionID)
	if err != nil {
		return nil, fmt.Errorf("commitment %s: %w", c.ID, err)
	}
	c.Choice = choice
	c.CreatedAt = utc(c.CreatedAt)
	c.UpdatedAt = utc(c.UpdatedAt)
	return &c, nil
}

func getCommitment(ctx context.Context, q querier, userID, predictionID string) (*domain.Commitment, error) {
	if !validID(userID) || !validID(predictionID) {
		return nil, nil
	}
	c, err := scanCommitment(q.QueryRow(ctx, `SELECT `+commitmentColumns+` FROM commitments
		WHERE user_id = $1 AND prediction_id = $2`, userID, predictionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCommitment, err)
	}
	return c, nil
}

func listCommitments(ctx context.Context, q querier, query string, arg string) ([]domain.Commitment, error) {
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
	}
	defer rows.Close()

	var out []domain.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanCommitment, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
	}
	return out, nil
}

// getPoolCommitments returns the live pool ordered by user id, which is also
// the order user rows are locked in during resolution.
func getPoolCommitments(ctx context.Context, q querier, predictionID string) ([]domain.Commitment, error) {
	if !validID(predictionID) {
		return nil, nil
	}
	return listCommitments(ctx, q, `SELECT `+commitmentColumns+` FROM commitments
		WHERE prediction_id = $1 ORDER BY user_id`, predictionID)
}

func expireIfDue(ctx context.Context, q querier, predictionID string, now time.Time) (int64, error) {
	if !validID(predictionID) {
		return 0, nil
	}
	tag, err := q.Exec(ctx, `
		UPDATE predictions SET status = $2
		WHERE prediction_id = $1 AND status = $3 AND resolve_by < $4
	`, predictionID, string(domain.PredictionStatusPending), string(domain.PredictionStatusActive), now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToExpirePredictions, err)
	}
	return tag.RowsAffected(), nil
}

func appendTransaction(ctx context.Context, q querier, txn *domain.CuTransaction) error {
	_, err := q.Exec(ctx, `
		INSERT INTO cu_transactions (transaction_id, user_id, type, amount, balance_after, reference_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, txn.ID, txn.UserID, string(txn.Type), txn.Amount, txn.BalanceAfter, txn.ReferenceID, txn.Note, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertLedgerRow, err)
	}
	return nil
}
