package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Credence_Go/internal/domain"
)

const (
	userColumns = `user_id, username, cu_available, cu_locked, rs, is_bot, created_at`

	predictionColumns = `prediction_id, author_id, claim_text, status, outcome_type, resolve_by, locked_at,
		resolved_at, resolved_by_id, resolution_outcome, resolution_note, evidence_links, created_at`

	commitmentColumns = `commitment_id, user_id, prediction_id, cu_committed, binary_choice, option_id,
		rs_snapshot, cu_returned, rs_change, created_at, updated_at`

	transactionColumns = `transaction_id, user_id, type, amount, balance_after, reference_id, note, created_at`
)

func scanUser(row scanner) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.CuAvailable, &u.CuLocked, &u.RS, &u.IsBot, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

// getUser reads a user row. SQLite has no row locks; the single connection
// held by the open transaction already excludes other writers.
func getUser(ctx context.Context, q querier, userID string) (*domain.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

func scanPrediction(row scanner) (*domain.Prediction, error) {
	var (
		p                    domain.Prediction
		status, outcomeType  string
		resolveBy, createdAt string
		lockedAt, resolvedAt sql.NullString
		resolvedBy, outcome  sql.NullString
		note                 sql.NullString
		links                string
	)
	err := row.Scan(&p.ID, &p.AuthorID, &p.ClaimText, &status, &outcomeType, &resolveBy, &lockedAt,
		&resolvedAt, &resolvedBy, &outcome, &note, &links, &createdAt)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PredictionStatus(status)
	p.OutcomeType = domain.OutcomeType(outcomeType)
	if p.ResolveByDatetime, err = parseTime(resolveBy); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.LockedAt, err = parseNullTime(lockedAt); err != nil {
		return nil, err
	}
	if p.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, err
	}
	p.ResolvedByID = nullStringPtr(resolvedBy)
	p.ResolutionNote = nullStringPtr(note)
	if outcome.Valid {
		o := domain.ResolutionOutcome(outcome.String)
		p.ResolutionOutcome = &o
	}
	if p.EvidenceLinks, err = decodeLinks(links); err != nil {
		return nil, err
	}
	return &p, nil
}

func getPrediction(ctx context.Context, q querier, predictionID string) (*domain.Prediction, error) {
	p, err := scanPrediction(q.QueryRowContext(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE prediction_id = ?`, predictionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	rows, err := q.QueryContext(ctx, `
		SELECT option_id, prediction_id, option_text, display_order, is_correct
		FROM prediction_options WHERE prediction_id = ? ORDER BY display_order, option_id
	`, predictionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOptions, err)
	}
	defer rows.Close()

	var options []domain.PredictionOption
	for rows.Next() {
		var (
			o         domain.PredictionOption
			isCorrect sql.NullBool
		)
		if err := rows.Scan(&o.ID, &o.PredictionID, &o.Text, &o.DisplayOrder, &isCorrect); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOptions, err)
		}
		if isCorrect.Valid {
			v := isCorrect.Bool
			o.IsCorrect = &v
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOptions, err)
	}
	return options, nil
}

func scanCommitment(row scanner) (*domain.Commitment, error) {
	var (
		c                    domain.Commitment
		binary               sql.NullBool
		optionID             sql.NullString
		cuReturned           sql.NullInt64
		rsChange             sql.NullFloat64
		createdAt, updatedAt string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.PredictionID, &c.CuCommitted, &binary, &optionID,
		&c.RsSnapshot, &cuReturned, &rsChange, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var binaryPtr *bool
	if binary.Valid {
		v := binary.Bool
		binaryPtr = &v
	}
	if c.Choice, err = domain.ChoiceFromColumns(binaryPtr, nullStringPtr(optionID)); err != nil {
		return nil, fmt.Errorf("commitment %s: %w", c.ID, err)
	}
	if cuReturned.Valid {
		v := cuReturned.Int64
		c.CuReturned = &v
	}
	if rsChange.Valid {
		v := rsChange.Float64
		c.RsChange = &v
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func getCommitment(ctx context.Context, q querier, userID, predictionID string) (*domain.Commitment, error) {
	c, err := scanCommitment(q.QueryRowContext(ctx, `SELECT `+commitmentColumns+` FROM commitments
		WHERE user_id = ? AND prediction_id = ?`, userID, predictionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCommitment, err)
	}
	return c, nil
}

func listCommitments(ctx context.Context, q querier, query string, arg string) ([]domain.Commitment, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
	}
	defer rows.Close()

	var out []domain.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
	}
	return out, nil
}

func getPoolCommitments(ctx context.Context, q querier, predictionID string) ([]domain.Commitment, error) {
	return listCommitments(ctx, q, `SELECT `+commitmentColumns+` FROM commitments
		WHERE prediction_id = ? ORDER BY user_id`, predictionID)
}

func expireIfDue(ctx context.Context, q querier, predictionID string, now time.Time) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE predictions SET status = ?
		WHERE prediction_id = ? AND status = ? AND resolve_by < ?
	`, string(domain.PredictionStatusPending), predictionID, string(domain.PredictionStatusActive), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToExpirePredictions, err)
	}
	return res.RowsAffected()
}

func appendTransaction(ctx context.Context, q querier, txn *domain.CuTransaction) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO cu_transactions (transaction_id, user_id, type, amount, balance_after, reference_id, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, txn.UserID, string(txn.Type), txn.Amount, txn.BalanceAfter, txn.ReferenceID, txn.Note, formatTime(txn.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertLedgerRow, err)
	}
	return nil
}
