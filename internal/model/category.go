package model

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (c Category) RecordID() string { return c.ID }

func (c *Category) SetRecordID(id string) { c.ID = id }
