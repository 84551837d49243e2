// Package events holds the payloads published on the message bus.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/shopspring/decimal"
)

// SaleRecordedEvent is published after a sale and its stock changes are committed.
type SaleRecordedEvent struct {
	Carrier   map[string]string  `json:"carrier,omitempty"`
	SaleID    string             `json:"sale_id"`
	ClientID  string             `json:"client_id"`
	Total     decimal.Decimal    `json:"total"`
	Items     []SaleRecordedItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

type SaleRecordedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (e SaleRecordedEvent) Subject() string {
	return messaging.SalesRecordedSubject
}

func (e SaleRecordedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
