package models

import "time"

// Image is the metadata of an uploaded file. The bytes live in the blob
// store under StorageKey.
type Image struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	AltText    *string   `json:"alt_text"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
