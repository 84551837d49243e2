package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	apperrors "github.com/abgdnv/storefront/internal/errors"
)

// Collection gives typed access to one named collection.
type Collection[T any] struct {
	Name   string
	logger *slog.Logger
}

// NewCollection binds T to the collection called name.
func NewCollection[T any](name string, logger *slog.Logger) Collection[T] {
	return Collection[T]{Name: name, logger: logger.With("collection", name)}
}

// Load decodes every record of the collection. Storage that is missing, or not a JSON array
// at all, reads as empty at the store level. A single record that does not decode into T is a
// PersistenceError instead: reading it as empty would let the next Save drop every record.
func (c Collection[T]) Load(ctx context.Context, s RecordStore) ([]T, error) {
	raw, err := s.Load(ctx, c.Name)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "load", Collection: c.Name, Err: err}
	}
	records := make([]T, 0, len(raw))
	for i, r := range raw {
		var record T
		if err := json.Unmarshal(r, &record); err != nil {
			c.logger.ErrorContext(ctx, "Collection holds an undecodable record", "index", i, "error", err)
			return nil, &apperrors.PersistenceError{Op: "decode", Collection: c.Name, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		records = append(records, record)
	}
	return records, nil
}

// Save encodes records and replaces the collection.
func (c Collection[T]) Save(ctx context.Context, s RecordStore, records []T) error {
	raw := make([]json.RawMessage, len(records))
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return &apperrors.PersistenceError{Op: "encode", Collection: c.Name, Err: err}
		}
		raw[i] = data
	}
	if err := s.Save(ctx, c.Name, raw); err != nil {
		return &apperrors.PersistenceError{Op: "save", Collection: c.Name, Err: err}
	}
	return nil
}
