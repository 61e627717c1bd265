package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Credence_Go/internal/domain"
)

var errBusUnavailable = errors.New("bus unavailable")

// flakyBus fails its first failures publishes and records every attempt
type flakyBus struct {
	failures int32
	calls    atomic.Int32

	mu        sync.Mutex
	published []Event
}

func (b *flakyBus) Publish(_ context.Context, evt Event) error {
	n := b.calls.Add(1)
	if n <= b.failures {
		return errBusUnavailable
	}
	b.mu.Lock()
	b.published = append(b.published, evt)
	b.mu.Unlock()
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) delivered() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.published...)
}

func withdrawalEvent(predictionID string) Event {
	return NewWithdrawalEvent(domain.WithdrawalNotice{
		PredictionID: predictionID,
		UserID:       "user-1",
		Reason:       domain.WithdrawalReasonRemove,
		CuBurned:     4,
		CuRefunded:   6,
		OccurredAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
}

func deadLetterPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "dead_letter.jsonl")
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry DeadLetterEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestResilientPublisher_DeliversWithoutRetry(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{}
	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, path)
	require.NoError(t, err)

	require.NoError(t, rp.Publish(context.Background(), withdrawalEvent("pred-1")))
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, int32(1), bus.calls.Load())
	require.Len(t, bus.delivered(), 1)
	assert.Equal(t, CommitmentWithdrawn, bus.delivered()[0].Type)
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_RetriesUntilDelivered(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failures: 2}
	rp, err := NewResilientPublisher(bus, 3, 5*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), withdrawalEvent("pred-2"))

	assert.Eventually(t, func() bool { return len(bus.delivered()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, int32(3), bus.calls.Load(), "initial attempt plus two retries")
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_DeadLettersAfterMaxRetries(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failures: 1000}
	rp, err := NewResilientPublisher(bus, 2, 5*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), withdrawalEvent("pred-7"))

	assert.Eventually(t, func() bool { return bus.calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
	assert.Equal(t, "pred-7", entry.PredictionID)
	assert.Equal(t, CommitmentWithdrawn, entry.Event.Type)
	assert.Equal(t, 3, entry.Attempts)
	assert.Equal(t, errBusUnavailable.Error(), entry.LastError)

	// The payload comes back as a generic map and still decodes into the notice
	notice, err := DecodePayload[domain.WithdrawalNotice](entry.Event.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(4), notice.CuBurned)
	assert.Equal(t, int64(6), notice.CuRefunded)
}

func TestResilientPublisher_FullQueueDeadLettersImmediately(t *testing.T) {
	path := deadLetterPath(t)
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// No retry worker, so the single queue slot stays occupied
	bus := &flakyBus{failures: 1000}
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 1),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	for _, id := range []string{"pred-a", "pred-b", "pred-c"} {
		rp.PublishWithRetry(context.Background(), withdrawalEvent(id))
	}
	require.NoError(t, rp.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "pred-b", entries[0].PredictionID)
	assert.Equal(t, "pred-c", entries[1].PredictionID)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Len(t, rp.retryQueue, 1)
}

func TestResilientPublisher_ShutdownMakesFinalAttempt(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failures: 1}
	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), withdrawalEvent("pred-3"))
	assert.Empty(t, bus.delivered())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	assert.Len(t, bus.delivered(), 1, "queued event is flushed on shutdown")
	assert.Equal(t, int32(2), bus.calls.Load())
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_DropsFailuresAfterShutdown(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failures: 1000}
	rp, err := NewResilientPublisher(bus, 3, time.Millisecond, path)
	require.NoError(t, err)
	require.NoError(t, rp.Shutdown(context.Background()))

	rp.PublishWithRetry(context.Background(), withdrawalEvent("pred-4"))

	assert.Equal(t, int32(1), bus.calls.Load())
	assert.Empty(t, rp.retryQueue)
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ShutdownIsIdempotent(t *testing.T) {
	rp, err := NewResilientPublisher(&flakyBus{}, 3, time.Millisecond, deadLetterPath(t))
	require.NoError(t, err)

	require.NoError(t, rp.Shutdown(context.Background()))
	assert.NoError(t, rp.Shutdown(context.Background()))
}

func TestResilientPublisher_SubscribeDelegatesToInnerBus(t *testing.T) {
	inner := NewMemoryBus()
	rp, err := NewResilientPublisher(inner, 3, time.Millisecond, deadLetterPath(t))
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	var got []string
	rp.Subscribe(CommitmentWithdrawn, func(_ context.Context, evt Event) error {
		n, err := DecodePayload[domain.WithdrawalNotice](evt.Payload)
		if err != nil {
			return err
		}
		got = append(got, n.PredictionID)
		return nil
	})

	require.NoError(t, rp.Publish(context.Background(), withdrawalEvent("pred-5")))
	assert.Equal(t, []string{"pred-5"}, got)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	bus := &flakyBus{}
	rp, err := NewResilientPublisher(bus, 3, time.Millisecond, deadLetterPath(t))
	require.NoError(t, err)

	const publishers, perPublisher = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				rp.PublishWithRetry(context.Background(), withdrawalEvent("pred-6"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Len(t, bus.delivered(), publishers*perPublisher)
}

func TestCalculateRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{5, 32 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateRetryDelay(2*time.Second, tt.attempt), "attempt %d", tt.attempt)
	}
}
