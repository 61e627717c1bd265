package domain

import "time"

// Event types published by the ledger services
const (
	EventTypeCommitmentCreated   = "commitment.created"
	EventTypeCommitmentUpdated   = "commitment.updated"
	EventTypeCommitmentWithdrawn = "commitment.withdrawn"
	EventTypePredictionResolved  = "prediction.resolved"
	EventTypePredictionExpired   = "prediction.expired"
	EventTypePredictionActivated = "prediction.activated"
)

// CommitmentNotice is the payload handed to the notification collaborator
// whenever a user's stake changes.
type CommitmentNotice struct {
	PredictionID string    `json:"prediction_id"`
	AuthorID     string    `json:"author_id"`
	UserID       string    `json:"user_id"`
	CuCommitted  int64     `json:"cu_committed"`
	Choice       Choice    `json:"choice"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// WithdrawalNotice is published after a commitment is removed or reduced
type WithdrawalNotice struct {
	PredictionID string           `json:"prediction_id"`
	UserID       string           `json:"user_id"`
	Reason       WithdrawalReason `json:"reason"`
	CuBurned     int64            `json:"cu_burned"`
	CuRefunded   int64            `json:"cu_refunded"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// ResolutionNotice is published after a prediction reaches a terminal status
type ResolutionNotice struct {
	PredictionID string            `json:"prediction_id"`
	Outcome      ResolutionOutcome `json:"outcome"`
	Status       PredictionStatus  `json:"status"`
	Settled      int               `json:"settled"`
	NetCU        int64             `json:"net_cu"`
	UserIDs      []string          `json:"user_ids"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

// LifecycleNotice is published when a prediction changes status outside resolution
type LifecycleNotice struct {
	PredictionID      string           `json:"prediction_id,omitempty"`
	From              PredictionStatus `json:"from"`
	To                PredictionStatus `json:"to"`
	Count             int64            `json:"count"`
	ResolveByDatetime *time.Time       `json:"resolve_by_datetime,omitempty"`
	OccurredAt        time.Time        `json:"occurred_at"`
}
