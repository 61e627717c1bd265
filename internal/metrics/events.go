package metrics

import (
	"context"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all ledger events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.CommitmentCreated, event.CommitmentUpdated:
		Commitments.WithLabelValues(string(evt.Type)).Inc()

	case event.CommitmentWithdrawn:
		var n domain.WithdrawalNotice
		if n, err = event.DecodePayload[domain.WithdrawalNotice](evt.Payload); err == nil {
			Withdrawals.WithLabelValues(string(n.Reason)).Inc()
			CUBurned.Add(float64(n.CuBurned))
			CURefunded.Add(float64(n.CuRefunded))
		}

	case event.PredictionResolved:
		var n domain.ResolutionNotice
		if n, err = event.DecodePayload[domain.ResolutionNotice](evt.Payload); err == nil {
			Resolutions.WithLabelValues(string(n.Outcome)).Inc()
			if n.NetCU > 0 {
				CUMinted.Add(float64(n.NetCU))
			} else if n.NetCU < 0 {
				CUDestroyed.Add(float64(-n.NetCU))
			}
		}

	case event.PredictionExpired:
		var n domain.LifecycleNotice
		if n, err = event.DecodePayload[domain.LifecycleNotice](evt.Payload); err == nil {
			PredictionsExpired.Add(float64(n.Count))
		}

	case event.PredictionActivated:
		PredictionsActivated.Inc()
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
