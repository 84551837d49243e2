package model

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description,omitempty"`
}

func (p Product) RecordID() string { return p.ID }

func (p *Product) SetRecordID(id string) { p.ID = id }
