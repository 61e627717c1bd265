// Package sse streams ledger events to operators over Server-Sent Events.
// Clients may narrow the stream to some event types or to one prediction.
package sse

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/metrics"
)

// ErrHubStopped is returned by Register after Stop
var ErrHubStopped = errors.New(ErrMsgHubStopped)

// Event is a single message sent over the stream
type Event struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	PredictionID string `json:"prediction_id,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	Payload      any    `json:"payload"`
}

// Filter selects which events a client receives. Zero values match everything.
type Filter struct {
	Types        map[string]bool
	PredictionID string
}

func (f Filter) matches(e Event) bool {
	if len(f.Types) > 0 && !f.Types[e.Type] {
		return false
	}
	return f.PredictionID == "" || f.PredictionID == e.PredictionID
}

// Client is one connected stream
type Client struct {
	ID     string
	Events <-chan Event
	events chan Event
	filter Filter
}

// Hub fans broadcast events out to connected clients. A slow client loses
// events instead of stalling the others.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	broadcast chan Event
	quit      chan struct{}
	stopOnce  sync.Once
	stopped   bool
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewHub creates a hub. Call Start before broadcasting.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		broadcast: make(chan Event, BroadcastBufferSize),
		quit:      make(chan struct{}),
		now:       time.Now,
	}
}

// Start runs the fan-out loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the fan-out loop and closes every client channel, which ends
// their HTTP handlers. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
		h.wg.Wait()

		h.mu.Lock()
		h.stopped = true
		for id, c := range h.clients {
			close(c.events)
			delete(h.clients, id)
		}
		h.mu.Unlock()
		metrics.StreamClients.Set(0)
	})
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case e := <-h.broadcast:
			h.deliver(e)
		case <-h.quit:
			return
		}
	}
}

func (h *Hub) deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.filter.matches(e) {
			continue
		}
		select {
		case c.events <- e:
		default:
			metrics.StreamEventsDropped.Inc()
			logger.Debug(LogMsgEventDropped, "client_id", c.ID, "type", e.Type)
		}
	}
}

// Register adds a client. It fails once the hub has been stopped.
func (h *Hub) Register(filter Filter) (*Client, error) {
	events := make(chan Event, ClientEventBuffer)
	c := &Client{ID: uuid.NewString(), Events: events, events: events, filter: filter}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil, ErrHubStopped
	}
	h.clients[c.ID] = c
	metrics.StreamClients.Inc()
	return c, nil
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		close(c.events)
		delete(h.clients, clientID)
		metrics.StreamClients.Dec()
	}
}

// Broadcast queues an event for every interested client. It never blocks.
func (h *Hub) Broadcast(eventType, predictionID string, payload any) {
	e := Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		PredictionID: predictionID,
		Timestamp:    h.now().Unix(),
		Payload:      payload,
	}
	select {
	case h.broadcast <- e:
	default:
		metrics.StreamEventsDropped.Inc()
		logger.Warn(LogMsgBroadcastDropped, "type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in the text/event-stream wire format
func FormatSSEMessage(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if e.ID != "" {
		b.WriteString("id: " + e.ID + "\n")
	}
	b.WriteString("event: " + e.Type + "\n")
	b.WriteString("data: " + string(data) + "\n\n")
	return []byte(b.String()), nil
}
