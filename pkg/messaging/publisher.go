// Package messaging defines domain events and the publishers that deliver them.
package messaging

import (
	"context"
	"log/slog"
)

// SalesRecordedSubject carries a SaleRecordedEvent for every committed sale.
const SalesRecordedSubject = "sales.recorded"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log-publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.DebugContext(ctx, "Event not delivered, no broker configured", "subject", event.Subject())
	return nil
}
