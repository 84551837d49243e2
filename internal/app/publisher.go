package app

import (
	"context"
	"log/slog"

	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/nats"
)

// NewPublisher connects to NATS when configured and returns a circuit breaker protected publisher.
// Without NATS events are only logged. The returned function releases the connection.
func NewPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled() {
		logger.InfoContext(ctx, "NATS is not configured, sale events will only be logged")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	nc, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := nats.EnsureStream(ctx, js, cfg.Nats.Stream, messaging.SalesRecordedSubject); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.InfoContext(ctx, "Connected to NATS", "url", cfg.Nats.Url, "stream", cfg.Nats.Stream)

	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", "error", err)
		}
	}
	return messaging.NewBreakerPublisher(nats.NewNatsPublisher(js), cfg.Resilience, logger), closeFn, nil
}
