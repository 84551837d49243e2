// Package model holds the records kept in the store collections.
package model

import "github.com/shopspring/decimal"

func init() {
	// prices and totals are JSON numbers on the wire and on disk
	decimal.MarshalJSONWithoutQuotes = true
}

// Collection names.
const (
	Products   = "products"
	Categories = "categories"
	Clients    = "clients"
	Providers  = "providers"
	Users      = "users"
	Sales      = "sales"
)

// Identifier prefixes, one per collection.
const (
	ProductPrefix  = "prod"
	CategoryPrefix = "cat"
	ClientPrefix   = "cli"
	ProviderPrefix = "prov"
	UserPrefix     = "user"
	SalePrefix     = "sale"
)

// Record is implemented by every stored type.
type Record interface {
	RecordID() string
}

// IDs returns the identifiers of records in order.
func IDs[T Record](records []T) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.RecordID()
	}
	return ids
}
