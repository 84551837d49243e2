package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps collections in process memory. It backs tests and throwaway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]json.RawMessage
}

var _ TxStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]json.RawMessage)}
}

func (m *MemoryStore) Load(_ context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRecords(m.data[collection]), nil
}

func (m *MemoryStore) Save(_ context.Context, collection string, records []json.RawMessage) error {
	if err := validateName(collection); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[collection] = cloneRecords(records)
	return nil
}

func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx RecordStore) error) error {
	tx := newStagedTx(m)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for collection, records := range tx.writes {
		m.data[collection] = records
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
