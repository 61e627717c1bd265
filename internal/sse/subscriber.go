package sse

import (
	"context"

	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
)

// Subscriber bridges the event bus to the hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a subscriber broadcasting onto hub
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Subscribe registers for every ledger event type
func (s *Subscriber) Subscribe(bus event.Bus) {
	for _, t := range event.AllTypes {
		bus.Subscribe(t, s.handle)
	}
	logger.Info(LogMsgSubscribed, "types", event.AllTypes)
}

// handle forwards the notice unchanged. Payloads are already JSON-ready
// domain notices.
func (s *Subscriber) handle(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.PredictionID(), evt.Payload)
	return nil
}
