package metrics

import (
	"time"

	"github.com/osse101/Credence_Go/internal/domain"
)

// ObserveOperation records the latency of a ledger operation and, when err is
// non-nil, counts it under its error kind
func ObserveOperation(operation string, start time.Time, err error) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		OperationErrors.WithLabelValues(operation, string(domain.KindOf(err))).Inc()
	}
}
