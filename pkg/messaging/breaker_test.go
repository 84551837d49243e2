package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPublisher returns queued errors, then succeeds.
// Not thread-safe, should be used in sequential tests only.
type scriptedPublisher struct {
	calls     int
	responses []error
}

func (p *scriptedPublisher) Publish(_ context.Context, _ Event) error {
	p.calls++
	if len(p.responses) > 0 {
		err := p.responses[0]
		p.responses = p.responses[1:]
		return err
	}
	return nil
}

type testEvent struct{}

func (testEvent) Subject() string          { return "test.subject" }
func (testEvent) Payload() ([]byte, error) { return []byte(`{}`), nil }

func newTestBreaker(next Publisher) *BreakerPublisher {
	cfg := config.ResilienceConfig{
		Retry: config.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond},
		CircuitBreaker: config.CircuitBreakerConfig{
			ConsecutiveFailures: 4,
			ErrorRatePercent:    100,
			OpenTimeout:         time.Minute,
		},
	}
	return NewBreakerPublisher(next, cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestBreakerPublisher_RetriesTransientFailure(t *testing.T) {
	// given
	broken := errors.New("connection reset")
	next := &scriptedPublisher{responses: []error{broken, broken}}
	publisher := newTestBreaker(next)

	// when
	err := publisher.Publish(context.Background(), testEvent{})

	// then
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestBreakerPublisher_GivesUpAfterMaxAttempts(t *testing.T) {
	// given
	broken := errors.New("no responders")
	next := &scriptedPublisher{responses: []error{broken, broken, broken}}
	publisher := newTestBreaker(next)

	// when
	err := publisher.Publish(context.Background(), testEvent{})

	// then
	require.ErrorIs(t, err, broken)
	assert.Equal(t, 3, next.calls)
}

func TestBreakerPublisher_PayloadErrorIsNotRetried(t *testing.T) {
	// given
	next := &scriptedPublisher{responses: []error{&PayloadError{Subject: "test.subject", Err: errors.New("bad json")}}}
	publisher := newTestBreaker(next)

	// when
	err := publisher.Publish(context.Background(), testEvent{})

	// then
	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, 1, next.calls)
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	// given
	broken := errors.New("broker down")
	next := &scriptedPublisher{responses: []error{broken, broken, broken, broken, broken, broken}}
	publisher := newTestBreaker(next)

	// when
	_ = publisher.Publish(context.Background(), testEvent{}) // 3 failures
	err := publisher.Publish(context.Background(), testEvent{})

	// then
	require.ErrorIs(t, err, ErrPublisherUnavailable)
	assert.Equal(t, 4, next.calls, "the breaker should short-circuit after the 4th failure")
}
