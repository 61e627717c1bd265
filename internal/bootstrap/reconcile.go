package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/logger"
)

// Reconciler checks balances against the ledger
type Reconciler interface {
	ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error)
}

// ReconcileOnStartup compares every user's balance with the sum of their
// ledger entries and logs each mismatch. It returns the unbalanced accounts;
// they do not stop startup.
func ReconcileOnStartup(ctx context.Context, r Reconciler) ([]domain.Reconciliation, error) {
	recs, err := r.ReconcileAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedReconcile, err)
	}

	var unbalanced []domain.Reconciliation
	for _, rec := range recs {
		if !rec.Balanced {
			unbalanced = append(unbalanced, rec)
		}
	}
	if len(unbalanced) == 0 {
		logger.Info(LogMsgReconcileClean, "users", len(recs))
		return nil, nil
	}

	logger.Warn(LogMsgReconcileUnbalanced, "users", len(recs), "unbalanced", len(unbalanced))
	return unbalanced, nil
}
