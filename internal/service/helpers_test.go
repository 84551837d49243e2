package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

func testDeps(s store.TxStore) Deps {
	return Deps{
		Store:  s,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	}
}

func seed[T any](t *testing.T, s store.RecordStore, name string, records ...T) {
	t.Helper()
	coll := store.NewCollection[T](name, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, coll.Save(context.Background(), s, records))
}

func loadAll[T any](t *testing.T, s store.RecordStore, name string) []T {
	t.Helper()
	coll := store.NewCollection[T](name, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	out, err := coll.Load(context.Background(), s)
	require.NoError(t, err)
	return out
}

func stockOf(t *testing.T, s store.RecordStore, id string) int {
	t.Helper()
	for _, p := range loadAll[model.Product](t, s, model.Products) {
		if p.ID == id {
			return p.Stock
		}
	}
	t.Fatalf("product %s not stored", id)
	return 0
}

// failingStore delegates to a MemoryStore but fails writes to one collection inside transactions.
type failingStore struct {
	*store.MemoryStore
	failOn string
	err    error
}

func (f *failingStore) WithTx(ctx context.Context, fn func(tx store.RecordStore) error) error {
	return f.MemoryStore.WithTx(ctx, func(tx store.RecordStore) error {
		return fn(failingTx{RecordStore: tx, failOn: f.failOn, err: f.err})
	})
}

type failingTx struct {
	store.RecordStore
	failOn string
	err    error
}

func (f failingTx) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	if collection == f.failOn {
		return f.err
	}
	return f.RecordStore.Save(ctx, collection, records)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
