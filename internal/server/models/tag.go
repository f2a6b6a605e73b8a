package models

import "time"

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TagPatch struct {
	Name *string
}

func (p TagPatch) Apply(t *Tag) bool {
	if p.Name == nil {
		return false
	}
	t.Name = *p.Name
	return true
}
