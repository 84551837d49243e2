// Package validation configures go-playground/validator for request DTOs and records.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that reports json field names and compares decimals as float64.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// FieldErrors flattens validator errors into "path" -> "failed on rule: tag".
// Paths drop the root struct name, so nested fields read like "items[0].quantity".
// ok is false when err is not a validation error.
func FieldErrors(err error) (fields map[string]string, ok bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}
	fields = make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		path := fieldErr.Namespace()
		if _, rest, found := strings.Cut(path, "."); found {
			path = rest
		}
		fields[path] = "failed on rule: " + fieldErr.Tag()
	}
	return fields, true
}
