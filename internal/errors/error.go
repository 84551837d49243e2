// Package errors provides the error values shared by the store, services and transports.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("record not found")

var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
var ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
var ErrClientNotFound = fmt.Errorf("client %w", ErrNotFound)
var ErrProviderNotFound = fmt.Errorf("provider %w", ErrNotFound)
var ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
var ErrSaleNotFound = fmt.Errorf("sale %w", ErrNotFound)

var ErrCategoryInUse = errors.New("category is referenced by products")
var ErrUnknownCategory = errors.New("category does not exist")
var ErrUsernameTaken = errors.New("username already exists")
var ErrProtectedUser = errors.New("the primary administrator cannot be deleted")
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrMalformedID = errors.New("malformed record id")

var ErrInvalidInput = errors.New("invalid input")
var ErrSaleRejected = errors.New("sale rejected")
var ErrPersistence = errors.New("persistence failure")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")

// StructuralError reports a request that is missing required fields or carries values of the wrong shape.
// No record is read or written when it is returned.
type StructuralError struct {
	Fields map[string]string
}

func (e *StructuralError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "missing or invalid fields: " + strings.Join(names, ", ")
}

func (e *StructuralError) Unwrap() error {
	return ErrInvalidInput
}

// ValidationError aggregates every per-line problem found while checking a sale.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "sale validation failed: " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrSaleRejected
}

// PersistenceError reports a store operation that did not complete.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

// Unwrap exposes both ErrPersistence and the cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
