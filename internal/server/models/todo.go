package models

import "time"

type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (p TodoPatch) Apply(t *Todo) bool {
	changed := false
	if p.Title != nil {
		t.Title = *p.Title
		changed = true
	}
	if p.Description != nil {
		t.Description = p.Description
		changed = true
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
		changed = true
	}
	return changed
}

// TodoFilter narrows a todo listing. Nil fields do not filter.
type TodoFilter struct {
	// Title matches as a case-insensitive substring.
	Title     *string
	Completed *bool
}
