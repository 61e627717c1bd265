package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Credence_Go/internal/domain"
)

func TestMemoryBus_DeliversOnlyToSubscribedType(t *testing.T) {
	bus := NewMemoryBus()
	var got []Type
	record := func(_ context.Context, evt Event) error {
		got = append(got, evt.Type)
		return nil
	}
	bus.Subscribe(PredictionResolved, record)
	bus.Subscribe(PredictionResolved, record)

	require.NoError(t, bus.Publish(context.Background(), NewResolutionEvent(domain.ResolutionNotice{PredictionID: "p1"})))
	require.NoError(t, bus.Publish(context.Background(), NewWithdrawalEvent(domain.WithdrawalNotice{PredictionID: "p1"})))

	assert.Equal(t, []Type{PredictionResolved, PredictionResolved}, got)
}

func TestMemoryBus_NoSubscribersIsNotAnError(t *testing.T) {
	assert.NoError(t, NewMemoryBus().Publish(context.Background(), Event{Type: "nobody_listens"}))
}

func TestMemoryBus_FailingHandlerDoesNotStopTheRest(t *testing.T) {
	bus := NewMemoryBus()
	errFirst := errors.New("first")
	errThird := errors.New("third")
	calls := 0

	bus.Subscribe(PredictionExpired, func(context.Context, Event) error { calls++; return errFirst })
	bus.Subscribe(PredictionExpired, func(context.Context, Event) error { calls++; return nil })
	bus.Subscribe(PredictionExpired, func(context.Context, Event) error { calls++; return errThird })

	err := bus.Publish(context.Background(), Event{Type: PredictionExpired})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errThird)
	assert.Contains(t, err.Error(), "2 handlers failed")
}

func TestConstructors_TagPredictionID(t *testing.T) {
	tests := []struct {
		name string
		evt  Event
		want Type
	}{
		{"created", NewCommitmentEvent(CommitmentCreated, domain.CommitmentNotice{PredictionID: "p1"}), CommitmentCreated},
		{"updated", NewCommitmentEvent(CommitmentUpdated, domain.CommitmentNotice{PredictionID: "p1"}), CommitmentUpdated},
		{"withdrawn", NewWithdrawalEvent(domain.WithdrawalNotice{PredictionID: "p1"}), CommitmentWithdrawn},
		{"resolved", NewResolutionEvent(domain.ResolutionNotice{PredictionID: "p1"}), PredictionResolved},
		{"expired", NewLifecycleEvent(PredictionExpired, domain.LifecycleNotice{PredictionID: "p1"}), PredictionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.evt.Type)
			assert.Equal(t, EventSchemaVersion, tt.evt.Version)
			assert.Equal(t, "p1", tt.evt.PredictionID())
			assert.Nil(t, tt.evt.GetMetadataValue("missing"))
		})
	}
}

func TestEvent_BulkLifecycleCarriesNoMetadata(t *testing.T) {
	evt := NewLifecycleEvent(PredictionExpired, domain.LifecycleNotice{Count: 4})
	assert.Empty(t, evt.PredictionID())

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "metadata")
}

func TestEvent_PredictionIDSurvivesJSON(t *testing.T) {
	data, err := json.Marshal(NewWithdrawalEvent(domain.WithdrawalNotice{PredictionID: "p2"}))
	require.NoError(t, err)

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "p2", back.PredictionID())
	assert.IsType(t, map[string]any{}, back.Payload)
}

func TestDecodePayload(t *testing.T) {
	notice := domain.ResolutionNotice{PredictionID: "p3", Outcome: domain.OutcomeVoid, Settled: 3}

	direct, err := DecodePayload[domain.ResolutionNotice](notice)
	require.NoError(t, err)
	assert.Equal(t, notice, direct)

	generic := map[string]any{"prediction_id": "p3", "outcome": "void", "settled": 3}
	decoded, err := DecodePayload[domain.ResolutionNotice](generic)
	require.NoError(t, err)
	assert.Equal(t, "p3", decoded.PredictionID)
	assert.Equal(t, domain.OutcomeVoid, decoded.Outcome)
	assert.Equal(t, 3, decoded.Settled)

	_, err = DecodePayload[domain.ResolutionNotice]("not an object")
	assert.Error(t, err)
}
