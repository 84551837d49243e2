package model

// Client is a customer sales are recorded for.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (c Client) RecordID() string { return c.ID }

func (c *Client) SetRecordID(id string) { c.ID = id }

// Provider supplies products.
type Provider struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (p Provider) RecordID() string { return p.ID }

func (p *Provider) SetRecordID(id string) { p.ID = id }
