// Package event carries ledger notices from the services to subscribers
// such as metrics, notifications and the admin event stream.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/osse101/Credence_Go/internal/domain"
)

// Type names an event
type Type string

// Ledger event types
const (
	CommitmentCreated   Type = domain.EventTypeCommitmentCreated
	CommitmentUpdated   Type = domain.EventTypeCommitmentUpdated
	CommitmentWithdrawn Type = domain.EventTypeCommitmentWithdrawn
	PredictionResolved  Type = domain.EventTypePredictionResolved
	PredictionExpired   Type = domain.EventTypePredictionExpired
	PredictionActivated Type = domain.EventTypePredictionActivated
)

// AllTypes lists every event type the ledger publishes
var AllTypes = []Type{
	CommitmentCreated,
	CommitmentUpdated,
	CommitmentWithdrawn,
	PredictionResolved,
	PredictionExpired,
	PredictionActivated,
}

// Event is one published notice. Payload holds a domain notice when
// published in-process and a generic map once read back from JSON.
type Event struct {
	Version  string         `json:"version"`
	Type     Type           `json:"type"`
	Payload  any            `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GetMetadataValue returns the metadata entry for key, or nil
func (e Event) GetMetadataValue(key string) any {
	return e.Metadata[key]
}

// PredictionID returns the prediction the event concerns, or ""
func (e Event) PredictionID() string {
	id, _ := e.Metadata[MetadataKeyPredictionID].(string)
	return id
}

func newEvent(t Type, predictionID string, payload any) Event {
	evt := Event{Version: EventSchemaVersion, Type: t, Payload: payload}
	if predictionID != "" {
		evt.Metadata = map[string]any{MetadataKeyPredictionID: predictionID}
	}
	return evt
}

// NewCommitmentEvent wraps a stake change. eventType is CommitmentCreated or CommitmentUpdated.
func NewCommitmentEvent(eventType Type, notice domain.CommitmentNotice) Event {
	return newEvent(eventType, notice.PredictionID, notice)
}

// NewWithdrawalEvent wraps an early exit
func NewWithdrawalEvent(notice domain.WithdrawalNotice) Event {
	return newEvent(CommitmentWithdrawn, notice.PredictionID, notice)
}

// NewResolutionEvent wraps a completed resolution
func NewResolutionEvent(notice domain.ResolutionNotice) Event {
	return newEvent(PredictionResolved, notice.PredictionID, notice)
}

// NewLifecycleEvent wraps a status change made outside resolution
func NewLifecycleEvent(eventType Type, notice domain.LifecycleNotice) Event {
	return newEvent(eventType, notice.PredictionID, notice)
}

// Handler reacts to one event
type Handler func(ctx context.Context, event Event) error

// Bus delivers events to the handlers subscribed to their type
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus runs handlers synchronously on the publishing goroutine
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewMemoryBus returns an empty bus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Publish calls every handler for event.Type in subscription order. A
// failing handler does not stop the rest; their errors are joined.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf(ErrMsgHandlersFailedFormat, len(errs), event.Type, errors.Join(errs...))
}

// Subscribe adds handler for eventType
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
