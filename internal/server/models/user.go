// Package models defines the entities persisted in PostgreSQL, their sparse
// patch types and list filters.
package models

import "time"

// User is an account able to log in and author blog posts.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FullName       *string   `json:"full_name"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserPatch holds the fields of a user update. Password is plaintext and is
// hashed by the service before Apply is called with HashedPassword set.
type UserPatch struct {
	Username       *string
	Email          *string
	FullName       *string
	IsActive       *bool
	Password       *string
	HashedPassword *string
}

// Apply copies the present fields onto u and reports whether anything was set.
func (p UserPatch) Apply(u *User) bool {
	changed := false
	if p.Username != nil {
		u.Username = *p.Username
		changed = true
	}
	if p.Email != nil {
		u.Email = *p.Email
		changed = true
	}
	if p.FullName != nil {
		u.FullName = p.FullName
		changed = true
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
		changed = true
	}
	if p.HashedPassword != nil {
		u.HashedPassword = *p.HashedPassword
		changed = true
	}
	return changed
}
