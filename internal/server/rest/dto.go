package rest

import (
	"bytes"
	"encoding/json"
	"time"
)

// nullable records whether a JSON field was present and whether it was
// null, so that an explicit null can clear a value.
type nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type todoCreateRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

type todoUpdateRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type itemCreateRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required"`
	Tax         *float64 `json:"tax"`
}

type itemUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Tax         *float64 `json:"tax"`
}

type userCreateRequest struct {
	Username string  `json:"username" validate:"required,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,max=72"`
	FullName *string `json:"full_name"`
}

type userUpdateRequest struct {
	Username *string `json:"username" validate:"omitnil,min=1,max=50"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=1,max=72"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type categoryCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
}

type tagCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type tagUpdateRequest struct {
	Name *string `json:"name" validate:"omitnil,min=1"`
}

type blogPostCreateRequest struct {
	Title       string     `json:"title" validate:"required"`
	Content     string     `json:"content" validate:"required"`
	CategoryID  *string    `json:"category_id"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	TagIDs      []string   `json:"tag_ids"`
	ImageIDs    []string   `json:"image_ids"`
}

type blogPostUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitnil,min=1"`
	Content     *string          `json:"content"`
	CategoryID  nullable[string] `json:"category_id"`
	Published   *bool            `json:"published"`
	PublishedAt *time.Time       `json:"published_at"`
	TagIDs      *[]string        `json:"tag_ids"`
	ImageIDs    *[]string        `json:"image_ids"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
