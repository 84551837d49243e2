// Package entity looks records up by identifier.
package entity

import "github.com/abgdnv/storefront/internal/model"

// FindByID returns the first record with id, scanning in collection order.
func FindByID[T model.Record](records []T, id string) (T, bool) {
	i := IndexOf(records, id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return records[i], true
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf[T model.Record](records []T, id string) int {
	for i, r := range records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

// Exists reports whether a record with id is present.
func Exists[T model.Record](records []T, id string) bool {
	return IndexOf(records, id) >= 0
}
