// Package service implements the business operations over the record store.
package service

import (
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store    store.TxStore
	Locks    *store.Locks
	Validate *validator.Validate
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Locks == nil {
		d.Locks = store.NewLocks()
	}
	if d.Validate == nil {
		d.Validate = validation.New()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// checkStruct runs struct validation and converts failures into a StructuralError.
func checkStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if fields, ok := validation.FieldErrors(err); ok {
		return &apperrors.StructuralError{Fields: fields}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
}
