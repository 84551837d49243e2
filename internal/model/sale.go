package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a completed sale.
type Sale struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	ClientID string          `json:"clientId"`
	Items    []SaleLine      `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

// DateLayout writes sale dates as UTC with exactly three fractional digits.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON writes Date with DateLayout. Decoding keeps the default RFC 3339 parser,
// which accepts that layout.
func (s Sale) MarshalJSON() ([]byte, error) {
	type plain Sale
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain: plain(s), Date: s.Date.UTC().Format(DateLayout)})
}

// SaleLine snapshots product name and unit price at sale time.
type SaleLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal is Price times Quantity.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (s Sale) RecordID() string { return s.ID }

func (s *Sale) SetRecordID(id string) { s.ID = id }
