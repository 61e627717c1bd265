// Package notification turns ledger events into messages for whatever
// delivers them to users. Delivery is fire and forget: a failing notifier is
// logged and never reaches the operation that raised the event.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
)

// Message is a single notification
type Message struct {
	Kind         string
	PredictionID string
	UserIDs      []string
	Text         string
}

// Notifier delivers messages
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Dispatcher subscribes to ledger events and forwards them to a Notifier
type Dispatcher struct {
	notifier Notifier
}

// NewDispatcher creates a dispatcher. A nil notifier logs messages instead.
func NewDispatcher(notifier Notifier) *Dispatcher {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Dispatcher{notifier: notifier}
}

// Subscribe registers the dispatcher for every ledger event type
func (d *Dispatcher) Subscribe(bus event.Bus) {
	for _, t := range event.AllTypes {
		bus.Subscribe(t, d.handle)
	}
	slog.Info(LogMsgSubscribed, "types", event.AllTypes)
}

func (d *Dispatcher) handle(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	msg, err := toMessage(evt)
	if err != nil {
		log.Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}
	if err := d.notifier.Notify(ctx, msg); err != nil {
		log.Warn(LogMsgDeliveryFailed, "type", evt.Type, "prediction_id", msg.PredictionID, "error", err)
	}
	return nil
}

func toMessage(evt event.Event) (Message, error) {
	switch evt.Type {
	case event.CommitmentCreated, event.CommitmentUpdated:
		n, err := event.DecodePayload[domain.CommitmentNotice](evt.Payload)
		if err != nil {
			return Message{}, err
		}
		// The author hears about stakes on their prediction
		return Message{
			Kind:         KindCommitment,
			PredictionID: n.PredictionID,
			UserIDs:      []string{n.AuthorID},
			Text:         fmt.Sprintf(msgCommitmentFmt, n.CuCommitted, n.Choice, n.PredictionID),
		}, nil

	case event.CommitmentWithdrawn:
		n, err := event.DecodePayload[domain.WithdrawalNotice](evt.Payload)
		if err != nil {
			return Message{}, err
		}
		return Message{
			Kind:         KindWithdrawal,
			PredictionID: n.PredictionID,
			UserIDs:      []string{n.UserID},
			Text:         fmt.Sprintf(msgWithdrawalFmt, title(string(n.Reason)), n.PredictionID, n.CuBurned, n.CuRefunded),
		}, nil

	case event.PredictionResolved:
		n, err := event.DecodePayload[domain.ResolutionNotice](evt.Payload)
		if err != nil {
			return Message{}, err
		}
		return Message{
			Kind:         KindResolution,
			PredictionID: n.PredictionID,
			UserIDs:      n.UserIDs,
			Text:         fmt.Sprintf(msgResolutionFmt, n.PredictionID, n.Outcome, n.Settled),
		}, nil

	case event.PredictionExpired, event.PredictionActivated:
		n, err := event.DecodePayload[domain.LifecycleNotice](evt.Payload)
		if err != nil {
			return Message{}, err
		}
		text := fmt.Sprintf(msgExpiredFmt, n.Count)
		if evt.Type == event.PredictionActivated {
			text = fmt.Sprintf(msgActivatedFmt, n.PredictionID)
		}
		return Message{Kind: KindLifecycle, PredictionID: n.PredictionID, Text: text}, nil
	}
	return Message{}, fmt.Errorf("unhandled event type %s", evt.Type)
}

// title renders an enum value such as REMOVE as Remove. Casers are stateful,
// so each call builds its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// LogNotifier writes messages to the structured log
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, msg Message) error {
	logger.FromContext(ctx).Info(LogMsgNotificationOut, "kind", msg.Kind, "prediction_id", msg.PredictionID,
		"users", msg.UserIDs, "text", msg.Text)
	return nil
}
