// Package store persists named collections of JSON records.
//
// A collection is an ordered sequence of records replaced as a whole on every save.
// Backends differ in durability, but they share one contract:
//   - Load of a collection that does not exist, or whose stored form cannot be decoded,
//     returns an empty sequence and logs the problem.
//   - Save replaces the entire collection, or fails and leaves it untouched.
//   - WithTx commits every Save made through the transaction together, or none of them.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// RecordStore loads and saves whole collections.
type RecordStore interface {
	// Load returns the records of collection in stored order.
	Load(ctx context.Context, collection string) ([]json.RawMessage, error)
	// Save replaces collection with records.
	Save(ctx context.Context, collection string, records []json.RawMessage) error
}

// TxStore is a RecordStore that can group saves into one atomic commit.
type TxStore interface {
	RecordStore
	// WithTx runs fn with a transactional view of the store. Saves made through tx become
	// visible to other callers only if fn returns nil and the commit succeeds.
	WithTx(ctx context.Context, fn func(tx RecordStore) error) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// validateName rejects names that cannot be used as a file name or table key.
func validateName(collection string) error {
	if collection == "" ||
		strings.HasPrefix(collection, ".") ||
		filepath.Base(collection) != collection ||
		strings.ContainsAny(collection, `/\`) {
		return fmt.Errorf("invalid collection name %q", collection)
	}
	return nil
}

// cloneRecords deep-copies records so callers cannot alias stored bytes.
func cloneRecords(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}

// decodeBody parses a stored JSON array. An empty body decodes to an empty collection.
func decodeBody(body []byte) ([]json.RawMessage, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return []json.RawMessage{}, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// encodeBody renders records as an indented JSON array.
func encodeBody(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// stagedTx buffers saves in memory until the owning store commits them.
type stagedTx struct {
	base   RecordStore
	writes map[string][]json.RawMessage
}

func newStagedTx(base RecordStore) *stagedTx {
	return &stagedTx{base: base, writes: make(map[string][]json.RawMessage)}
}

func (t *stagedTx) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if records, ok := t.writes[collection]; ok {
		return cloneRecords(records), nil
	}
	return t.base.Load(ctx, collection)
}

func (t *stagedTx) Save(_ context.Context, collection string, records []json.RawMessage) error {
	if err := validateName(collection); err != nil {
		return err
	}
	t.writes[collection] = cloneRecords(records)
	return nil
}
