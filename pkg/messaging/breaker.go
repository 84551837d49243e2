package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// ErrPublisherUnavailable is returned while the breaker is open.
var ErrPublisherUnavailable = errors.New("publisher unavailable")

// BreakerPublisher retries failed publishes with exponential backoff and stops calling the
// wrapped publisher while it keeps failing.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	retry   config.RetryConfig
	logger  *slog.Logger
}

// NewBreakerPublisher wraps next with a circuit breaker built from cfg.
func NewBreakerPublisher(next Publisher, cfg config.ResilienceConfig, logger *slog.Logger) *BreakerPublisher {
	logger = logger.With("component", "breaker-publisher")
	cb := cfg.CircuitBreaker
	st := gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: max(cb.HalfOpenRequests, 1),
		Timeout:     cb.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cb.ConsecutiveFailures ||
				(total > cb.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cb.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a broken event is a caller bug, not a broker outage
			var payloadErr *PayloadError
			return err == nil || errors.As(err, &payloadErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](st),
		retry:   cfg.Retry,
		logger:  logger,
	}
}

// Publish delivers event through the breaker. Attempts stop early when ctx is done.
func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	attempts := max(p.retry.MaxAttempts, 1)
	backoff := p.retry.InitialBackoff

	var err error
	for attempt := uint(1); attempt <= attempts; attempt++ {
		_, err = p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.next.Publish(ctx, event)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %w", ErrPublisherUnavailable, err)
		}
		var payloadErr *PayloadError
		if errors.As(err, &payloadErr) || attempt == attempts {
			break
		}
		p.logger.DebugContext(ctx, "Publish failed, retrying", "subject", event.Subject(), "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// PayloadError reports an event that could not be encoded.
type PayloadError struct {
	Subject string
	Err     error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("failed to encode %s event: %v", e.Subject, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}
