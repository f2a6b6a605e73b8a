package models

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

func (p CategoryPatch) Apply(c *Category) bool {
	changed := false
	if p.Name != nil {
		c.Name = *p.Name
		changed = true
	}
	if p.Description != nil {
		c.Description = p.Description
		changed = true
	}
	return changed
}
