package service

import (
	"context"
	"testing"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClients_CRUD(t *testing.T) {
	// given
	ctx := context.Background()
	s := store.NewMemoryStore()
	svc := NewClientService(testDeps(s))

	// when
	first, err := svc.Create(ctx, model.Client{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, model.Client{ID: "cli99", Name: "Grace"})
	require.NoError(t, err)

	// then
	assert.Equal(t, "cli1", first.ID)
	assert.Equal(t, "cli2", second.ID, "client supplied ids are replaced")

	// when
	updated, err := svc.Update(ctx, "cli1", []byte(`{"id":"cli42","phone":"555-0100"}`))

	// then
	require.NoError(t, err)
	assert.Equal(t, "cli1", updated.ID)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)

	// when
	require.NoError(t, svc.Delete(ctx, "cli1"))
	third, err := svc.Create(ctx, model.Client{Name: "Linus"})
	require.NoError(t, err)

	// then
	assert.Equal(t, "cli3", third.ID)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cli2", "cli3"}, model.IDs(all))
}

func TestClients_Errors(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	seed(t, s, model.Clients, model.Client{ID: "cli1", Name: "Ada"})
	svc := NewClientService(testDeps(s))

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name:    "create without name",
			call:    func() error { _, err := svc.Create(ctx, model.Client{Email: "x@example.com"}); return err },
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "create with bad email",
			call:    func() error { _, err := svc.Create(ctx, model.Client{Name: "Bob", Email: "nope"}); return err },
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "get missing",
			call:    func() error { _, err := svc.Get(ctx, "cli9"); return err },
			wantErr: apperrors.ErrClientNotFound,
		},
		{
			name:    "update missing",
			call:    func() error { _, err := svc.Update(ctx, "cli9", []byte(`{"name":"X"}`)); return err },
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "update with malformed patch",
			call:    func() error { _, err := svc.Update(ctx, "cli1", []byte(`{"name":`)); return err },
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "update clearing the name",
			call:    func() error { _, err := svc.Update(ctx, "cli1", []byte(`{"name":""}`)); return err },
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "delete missing",
			call:    func() error { return svc.Delete(ctx, "cli9") },
			wantErr: apperrors.ErrClientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// when
			err := tt.call()

			// then
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored := loadAll[model.Client](t, s, model.Clients)
	require.Len(t, stored, 1)
	assert.Equal(t, "Ada", stored[0].Name)
}

func TestProducts_CategoryMustExist(t *testing.T) {
	// given
	ctx := context.Background()
	s := store.NewMemoryStore()
	seed(t, s, model.Categories, model.Category{ID: "cat1", Name: "Tools"})
	svc := NewProductService(testDeps(s))

	// when
	_, unknownErr := svc.Create(ctx, model.Product{Name: "Saw", Price: decimal.NewFromInt(12), Stock: 1, CategoryID: "cat7"})
	created, err := svc.Create(ctx, model.Product{Name: "Saw", Price: decimal.NewFromInt(12), Stock: 1, CategoryID: "cat1"})
	require.NoError(t, err)
	_, moveErr := svc.Update(ctx, created.ID, []byte(`{"categoryId":"cat7"}`))

	// then
	assert.ErrorIs(t, unknownErr, apperrors.ErrUnknownCategory)
	assert.Equal(t, "prod1", created.ID)
	assert.ErrorIs(t, moveErr, apperrors.ErrUnknownCategory)
	stored := loadAll[model.Product](t, s, model.Products)
	require.Len(t, stored, 1)
	assert.Equal(t, "cat1", stored[0].CategoryID)
}

func TestProducts_RejectNegativeValues(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(testDeps(store.NewMemoryStore()))

	tests := []struct {
		name    string
		product model.Product
		field   string
	}{
		{name: "negative price", product: model.Product{Name: "A", Price: decimal.NewFromInt(-1)}, field: "price"},
		{name: "negative stock", product: model.Product{Name: "A", Stock: -3}, field: "stock"},
		{name: "missing name", product: model.Product{Price: decimal.NewFromInt(1)}, field: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// when
			_, err := svc.Create(ctx, tt.product)

			// then
			var structural *apperrors.StructuralError
			require.ErrorAs(t, err, &structural)
			assert.Contains(t, structural.Fields, tt.field)
		})
	}
}

func TestCategories_DeleteWhileReferenced(t *testing.T) {
	// given
	ctx := context.Background()
	s := store.NewMemoryStore()
	seed(t, s, model.Categories, model.Category{ID: "cat1", Name: "Tools"}, model.Category{ID: "cat2", Name: "Toys"})
	seed(t, s, model.Products, model.Product{ID: "prod1", Name: "Saw", CategoryID: "cat1"})
	svc := NewCategoryService(testDeps(s))

	// when
	inUseErr := svc.Delete(ctx, "cat1")
	freeErr := svc.Delete(ctx, "cat2")

	// then
	assert.ErrorIs(t, inUseErr, apperrors.ErrCategoryInUse)
	assert.NoError(t, freeErr)
	assert.Equal(t, []string{"cat1"}, model.IDs(loadAll[model.Category](t, s, model.Categories)))
}

func TestProviders_Create(t *testing.T) {
	// given
	ctx := context.Background()
	s := store.NewMemoryStore()
	seed(t, s, model.Providers, model.Provider{ID: "prov4", Name: "Acme"})
	svc := NewProviderService(testDeps(s))

	// when
	created, err := svc.Create(ctx, model.Provider{Name: "Globex", Contact: "Hank"})

	// then
	require.NoError(t, err)
	assert.Equal(t, "prov5", created.ID)
	got, err := svc.Get(ctx, "prov5")
	require.NoError(t, err)
	assert.Equal(t, "Hank", got.Contact)
}

func TestRecords_PersistenceFailure(t *testing.T) {
	// given
	ctx := context.Background()
	mem := store.NewMemoryStore()
	s := &failingStore{MemoryStore: mem, failOn: model.Clients, err: assert.AnError}
	svc := NewClientService(testDeps(s))

	// when
	_, err := svc.Create(ctx, model.Client{Name: "Ada"})

	// then
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, loadAll[model.Client](t, mem, model.Clients))
}
