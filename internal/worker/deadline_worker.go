package worker

import (
	"context"
	"time"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
)

// Expirer moves predictions past their resolve-by deadline to PENDING
type Expirer interface {
	TransitionExpired(ctx context.Context) (int64, error)
	TransitionIfExpired(ctx context.Context, predictionID string) (bool, error)
}

// DeadlineWorker arms a timer for every prediction that becomes ACTIVE and
// expires it as soon as its deadline passes, so predictions nobody touches
// still reach PENDING on time.
type DeadlineWorker struct {
	BaseWorker
	expirer Expirer
	grace   time.Duration
}

// NewDeadlineWorker creates a new DeadlineWorker
func NewDeadlineWorker(expirer Expirer) *DeadlineWorker {
	w := &DeadlineWorker{expirer: expirer, grace: DeadlineGrace}
	w.init()
	return w
}

// Start expires whatever passed its deadline while the process was down
func (w *DeadlineWorker) Start(ctx context.Context) {
	n, err := w.expirer.TransitionExpired(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgStartupSweepFailed, "error", err)
		return
	}
	logger.FromContext(ctx).Info(LogMsgStartupSweepDone, "expired", n)
}

// Subscribe subscribes the worker to relevant events
func (w *DeadlineWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.PredictionActivated, w.handleActivated)
}

func (w *DeadlineWorker) handleActivated(ctx context.Context, e event.Event) error {
	notice, err := event.DecodePayload[domain.LifecycleNotice](e.Payload)
	if err != nil || notice.PredictionID == "" || notice.ResolveByDatetime == nil {
		return nil
	}
	w.scheduleExpiry(notice.PredictionID, *notice.ResolveByDatetime)
	return nil
}

func (w *DeadlineWorker) scheduleExpiry(predictionID string, deadline time.Time) {
	// Expiry requires now to be strictly after the deadline
	d := time.Until(deadline) + w.grace
	if d < 0 {
		d = 0
	}
	logger.Debug(LogMsgSchedulingExpiry, "prediction_id", predictionID, "in", d)

	w.schedule(predictionID, d, func() {
		ctx := context.Background()
		expired, err := w.expirer.TransitionIfExpired(ctx, predictionID)
		if err != nil {
			logger.FromContext(ctx).Error(LogMsgExpiryFailed, "prediction_id", predictionID, "error", err)
			return
		}
		logger.FromContext(ctx).Debug(LogMsgExpiryChecked, "prediction_id", predictionID, "expired", expired)
	})
}

// Shutdown cancels pending timers and waits for in-flight expiries
func (w *DeadlineWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, deadlineWorkerName)
}
