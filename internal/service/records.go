package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/abgdnv/storefront/internal/entity"
	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/ident"
	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/go-playground/validator/v10"
)

// RecordService is the CRUD surface shared by clients, providers, categories and products.
type RecordService[T model.Record] interface {
	// List returns every record in stored order.
	List(ctx context.Context) ([]T, error)
	// Get returns the record with id, or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*T, error)
	// Create assigns the next identifier to rec and appends it.
	Create(ctx context.Context, rec T) (*T, error)
	// Update merges the fields present in patch into the stored record. The id never changes.
	Update(ctx context.Context, id string, patch json.RawMessage) (*T, error)
	// Delete removes the record with id.
	Delete(ctx context.Context, id string) error
}

type recordPtr[T any] interface {
	*T
	model.Record
	SetRecordID(id string)
}

// Hooks customise a Records instance for one record type.
type Hooks[T any] struct {
	// Related collections are locked together with the record collection during writes.
	Related []string
	// BeforeSave checks rec against the store before it is written. others holds every
	// other record of the collection.
	BeforeSave func(ctx context.Context, tx store.RecordStore, rec *T, others []T) error
	// BeforeDelete may refuse to remove rec.
	BeforeDelete func(ctx context.Context, tx store.RecordStore, rec T) error
}

// Records implements RecordService over one collection.
type Records[T model.Record, P recordPtr[T]] struct {
	store    store.TxStore
	locks    *store.Locks
	coll     store.Collection[T]
	prefix   string
	notFound error
	validate *validator.Validate
	hooks    Hooks[T]
	logger   *slog.Logger
}

var _ RecordService[model.Client] = (*Records[model.Client, *model.Client])(nil)

// NewRecords creates a Records for the collection called name whose ids start with prefix.
// notFound is returned, wrapped with the id, when a record is missing.
func NewRecords[T model.Record, P recordPtr[T]](deps Deps, name, prefix string, notFound error, hooks Hooks[T]) *Records[T, P] {
	deps = deps.withDefaults()
	logger := deps.Logger.With("component", name+"-service")
	return &Records[T, P]{
		store:    deps.Store,
		locks:    deps.Locks,
		coll:     store.NewCollection[T](name, deps.Logger),
		prefix:   prefix,
		notFound: notFound,
		validate: deps.Validate,
		hooks:    hooks,
		logger:   logger,
	}
}

func (r *Records[T, P]) List(ctx context.Context) ([]T, error) {
	return r.coll.Load(ctx, r.store)
}

func (r *Records[T, P]) Get(ctx context.Context, id string) (*T, error) {
	records, err := r.coll.Load(ctx, r.store)
	if err != nil {
		return nil, err
	}
	found, ok := entity.FindByID(records, id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, r.notFound)
	}
	return &found, nil
}

func (r *Records[T, P]) Create(ctx context.Context, rec T) (*T, error) {
	if err := checkStruct(r.validate, rec); err != nil {
		return nil, err
	}

	unlock := r.lock()
	defer unlock()

	err := r.store.WithTx(ctx, func(tx store.RecordStore) error {
		records, err := r.coll.Load(ctx, tx)
		if err != nil {
			return err
		}
		if r.hooks.BeforeSave != nil {
			if err := r.hooks.BeforeSave(ctx, tx, &rec, records); err != nil {
				return err
			}
		}
		id, err := ident.Next(r.prefix, model.IDs(records))
		if err != nil {
			return err
		}
		P(&rec).SetRecordID(id)
		return r.coll.Save(ctx, tx, append(records, rec))
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to create record", "error", err)
		return nil, err
	}
	r.logger.InfoContext(ctx, "Record created", "id", rec.RecordID())
	return &rec, nil
}

func (r *Records[T, P]) Update(ctx context.Context, id string, patch json.RawMessage) (*T, error) {
	unlock := r.lock()
	defer unlock()

	var updated T
	err := r.store.WithTx(ctx, func(tx store.RecordStore) error {
		records, err := r.coll.Load(ctx, tx)
		if err != nil {
			return err
		}
		idx := entity.IndexOf(records, id)
		if idx < 0 {
			return fmt.Errorf("%s: %w", id, r.notFound)
		}

		updated = records[idx]
		if err := json.Unmarshal(patch, &updated); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		P(&updated).SetRecordID(id)
		if err := checkStruct(r.validate, updated); err != nil {
			return err
		}
		if r.hooks.BeforeSave != nil {
			others := slices.Delete(slices.Clone(records), idx, idx+1)
			if err := r.hooks.BeforeSave(ctx, tx, &updated, others); err != nil {
				return err
			}
		}
		records[idx] = updated
		return r.coll.Save(ctx, tx, records)
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to update record", "id", id, "error", err)
		return nil, err
	}
	r.logger.InfoContext(ctx, "Record updated", "id", id)
	return &updated, nil
}

func (r *Records[T, P]) Delete(ctx context.Context, id string) error {
	unlock := r.lock()
	defer unlock()

	err := r.store.WithTx(ctx, func(tx store.RecordStore) error {
		records, err := r.coll.Load(ctx, tx)
		if err != nil {
			return err
		}
		idx := entity.IndexOf(records, id)
		if idx < 0 {
			return fmt.Errorf("%s: %w", id, r.notFound)
		}
		if r.hooks.BeforeDelete != nil {
			if err := r.hooks.BeforeDelete(ctx, tx, records[idx]); err != nil {
				return err
			}
		}
		return r.coll.Save(ctx, tx, slices.Delete(records, idx, idx+1))
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to delete record", "id", id, "error", err)
		return err
	}
	r.logger.InfoContext(ctx, "Record deleted", "id", id)
	return nil
}

func (r *Records[T, P]) lock() func() {
	return r.locks.Lock(append([]string{r.coll.Name}, r.hooks.Related...)...)
}
