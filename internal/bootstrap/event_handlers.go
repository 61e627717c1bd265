package bootstrap

import (
	"fmt"

	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/metrics"
	"github.com/osse101/Credence_Go/internal/notification"
	"github.com/osse101/Credence_Go/internal/sse"
	"github.com/osse101/Credence_Go/internal/worker"
)

// EventHandlerDependencies holds the subscribers wired onto the bus
type EventHandlerDependencies struct {
	EventBus       event.Bus
	Notifier       notification.Notifier
	DeadlineWorker *worker.DeadlineWorker
	EventStream    *sse.Hub
}

// RegisterEventHandlers subscribes the metrics collector and the notification
// dispatcher, plus the deadline worker and event stream when present
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	if err := metrics.NewEventMetricsCollector().Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	logger.Info(LogMsgMetricsCollectorRegistered)

	notification.NewDispatcher(deps.Notifier).Subscribe(deps.EventBus)
	logger.Info(LogMsgNotificationsSubscribed)

	if deps.DeadlineWorker != nil {
		deps.DeadlineWorker.Subscribe(deps.EventBus)
		logger.Info(LogMsgDeadlineWorkerSubscribed)
	}

	if deps.EventStream != nil {
		sse.NewSubscriber(deps.EventStream).Subscribe(deps.EventBus)
		logger.Info(LogMsgEventStreamSubscribed)
	}
	return nil
}
