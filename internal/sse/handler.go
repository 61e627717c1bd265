package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/Credence_Go/internal/logger"
)

// Handler streams hub events to one client until it disconnects or the hub
// stops. ?types=a,b narrows by event type and ?prediction=<id> by prediction.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		log := logger.FromContext(r.Context())

		filter := parseFilter(r)
		client, err := hub.Register(filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID, "total_clients", hub.ClientCount())
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		hello := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]any{"client_id": client.ID, "prediction": filter.PredictionID},
		}
		if msg, err := FormatSSEMessage(hello); err == nil {
			if _, err := w.Write(msg); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			log.Error(LogMsgWriteError, "error", err)
			return
		}
		log.Info(LogMsgClientConnected, "client_id", client.ID, "total_clients", hub.ClientCount())

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case e, ok := <-client.Events:
				if !ok {
					return
				}
				msg, err := FormatSSEMessage(e)
				if err != nil {
					log.Error(LogMsgWriteError, "error", err)
					continue
				}
				if _, err := w.Write(msg); err != nil {
					log.Warn(LogMsgWriteError, "error", err)
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}

			case <-ticker.C:
				if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			}
		}
	}
}

func parseFilter(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{PredictionID: strings.TrimSpace(q.Get(QueryPrediction))}
	for _, t := range strings.Split(q.Get(QueryTypes), ",") {
		if t = strings.TrimSpace(t); t != "" {
			if f.Types == nil {
				f.Types = make(map[string]bool)
			}
			f.Types[t] = true
		}
	}
	return f
}
