package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/storefront/internal/entity"
	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/store"
)

type (
	ProductService  = RecordService[model.Product]
	CategoryService = RecordService[model.Category]
	ClientService   = RecordService[model.Client]
	ProviderService = RecordService[model.Provider]
)

// NewProductService manages products. A non-empty categoryId must name an existing category.
func NewProductService(deps Deps) *Records[model.Product, *model.Product] {
	deps = deps.withDefaults()
	categories := store.NewCollection[model.Category](model.Categories, deps.Logger)
	return NewRecords[model.Product, *model.Product](deps, model.Products, model.ProductPrefix, apperrors.ErrProductNotFound, Hooks[model.Product]{
		Related: []string{model.Categories},
		BeforeSave: func(ctx context.Context, tx store.RecordStore, p *model.Product, _ []model.Product) error {
			if p.CategoryID == "" {
				return nil
			}
			existing, err := categories.Load(ctx, tx)
			if err != nil {
				return err
			}
			if !entity.Exists(existing, p.CategoryID) {
				return fmt.Errorf("%s: %w", p.CategoryID, apperrors.ErrUnknownCategory)
			}
			return nil
		},
	})
}

// NewCategoryService manages categories. A category still referenced by a product cannot be deleted.
func NewCategoryService(deps Deps) *Records[model.Category, *model.Category] {
	deps = deps.withDefaults()
	products := store.NewCollection[model.Product](model.Products, deps.Logger)
	return NewRecords[model.Category, *model.Category](deps, model.Categories, model.CategoryPrefix, apperrors.ErrCategoryNotFound, Hooks[model.Category]{
		Related: []string{model.Products},
		BeforeDelete: func(ctx context.Context, tx store.RecordStore, c model.Category) error {
			existing, err := products.Load(ctx, tx)
			if err != nil {
				return err
			}
			for _, p := range existing {
				if p.CategoryID == c.ID {
					return fmt.Errorf("%s used by %s: %w", c.ID, p.ID, apperrors.ErrCategoryInUse)
				}
			}
			return nil
		},
	})
}

func NewClientService(deps Deps) *Records[model.Client, *model.Client] {
	return NewRecords[model.Client, *model.Client](deps, model.Clients, model.ClientPrefix, apperrors.ErrClientNotFound, Hooks[model.Client]{})
}

func NewProviderService(deps Deps) *Records[model.Provider, *model.Provider] {
	return NewRecords[model.Provider, *model.Provider](deps, model.Providers, model.ProviderPrefix, apperrors.ErrProviderNotFound, Hooks[model.Provider]{})
}
