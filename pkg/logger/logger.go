// Package logger provides a slog.Handler that copies request scoped values from the context into records.
package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

// AttrExtractor pulls an optional attribute out of a context.
type AttrExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextHandler is a wrapper around slog.Handler that adds context information.
type ContextHandler struct {
	slog.Handler
	extractors []AttrExtractor
}

// NewContextHandler creates a new ContextHandler. Trace and request ids are always extracted,
// extra extractors run after them.
func NewContextHandler(handler slog.Handler, extra ...AttrExtractor) *ContextHandler {
	extractors := append([]AttrExtractor{TraceID, RequestID}, extra...)
	return &ContextHandler{
		Handler:    handler,
		extractors: extractors,
	}
}

// Handle adds the extracted attributes and delegates to the wrapped handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for _, extract := range h.extractors {
			if attr, ok := extract(ctx); ok {
				r.AddAttrs(attr)
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(group), extractors: h.extractors}
}

// TraceID extracts the id of the active OpenTelemetry span.
func TraceID(ctx context.Context) (slog.Attr, bool) {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return slog.String("trace_id", span.SpanContext().TraceID().String()), true
	}
	return slog.Attr{}, false
}

// RequestID extracts the chi request id.
func RequestID(ctx context.Context) (slog.Attr, bool) {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return slog.String("request_id", reqID), true
	}
	return slog.Attr{}, false
}
