package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64
)

// KeepaliveInterval is how often an idle stream receives a comment line so
// proxies keep the connection open
const KeepaliveInterval = 30 * time.Second

// Control event types
const (
	EventTypeConnected = "stream.connected"
)

// Query parameters accepted by the stream handler
const (
	QueryTypes      = "types"
	QueryPrediction = "prediction"
)

// Log messages
const (
	LogMsgClientConnected    = "Event stream client connected"
	LogMsgClientDisconnected = "Event stream client disconnected"
	LogMsgEventDropped       = "Event stream client buffer full, event dropped"
	LogMsgBroadcastDropped   = "Event stream broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write event stream message"
	LogMsgSubscribed         = "Event stream subscribed to ledger events"
)

// ErrMsgHubStopped is the message of ErrHubStopped
const ErrMsgHubStopped = "event stream is shutting down"
