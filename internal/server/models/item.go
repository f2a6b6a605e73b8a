package models

import "time"

type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Tax         *float64  `json:"tax"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Tax         *float64
}

func (p ItemPatch) Apply(i *Item) bool {
	changed := false
	if p.Name != nil {
		i.Name = *p.Name
		changed = true
	}
	if p.Description != nil {
		i.Description = p.Description
		changed = true
	}
	if p.Price != nil {
		i.Price = *p.Price
		changed = true
	}
	if p.Tax != nil {
		i.Tax = p.Tax
		changed = true
	}
	return changed
}

// ItemFilter narrows an item listing by name substring.
type ItemFilter struct {
	Name *string
}
