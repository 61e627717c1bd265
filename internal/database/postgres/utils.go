package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/logger"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx so reads can be shared
// between the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// ---- Common Helper Functions ----

// validID reports whether id can be bound to a UUID column. Lookups with a
// malformed id are answered as "not found" instead of a server error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// requireID is the write-path form of validID
func requireID(id, msg string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, msg, err)
	}
	return nil
}

// pgErrorCode extracts the SQLSTATE of a Postgres error, or "".
func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error, constraint string) bool {
	code, name := pgErrorCode(err)
	return code == PgErrorCodeUniqueViolation && (constraint == "" || name == constraint)
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func ptrUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// ---- End Common Helper Functions ----
