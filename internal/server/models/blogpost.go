package models

import "time"

// BlogPost is authored by one user. AuthorID never changes after creation.
type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	CategoryID  *string    `json:"category_id"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	TagIDs      []string   `json:"tag_ids"`
	ImageIDs    []string   `json:"image_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BlogPostTag links a post to a tag.
type BlogPostTag struct {
	BlogPostID string
	TagID      string
}

// BlogPostImage links a post to an image.
type BlogPostImage struct {
	BlogPostID string
	ImageID    string
}

// BlogPostPatch is a sparse update. A non-nil TagIDs or ImageIDs replaces the
// whole association set. ClearCategory detaches the category.
type BlogPostPatch struct {
	Title         *string
	Content       *string
	CategoryID    *string
	ClearCategory bool
	Published     *bool
	PublishedAt   *time.Time
	TagIDs        *[]string
	ImageIDs      *[]string
}

// Apply merges the scalar fields; association lists are handled by the
// store.
func (p BlogPostPatch) Apply(b *BlogPost) bool {
	changed := false
	if p.Title != nil {
		b.Title = *p.Title
		changed = true
	}
	if p.Content != nil {
		b.Content = *p.Content
		changed = true
	}
	if p.ClearCategory {
		b.CategoryID = nil
		changed = true
	} else if p.CategoryID != nil {
		b.CategoryID = p.CategoryID
		changed = true
	}
	if p.Published != nil {
		b.Published = *p.Published
		changed = true
	}
	if p.PublishedAt != nil {
		b.PublishedAt = p.PublishedAt
		changed = true
	}
	return changed
}

// HasAssociations reports whether the patch replaces tags or images.
func (p BlogPostPatch) HasAssociations() bool {
	return p.TagIDs != nil || p.ImageIDs != nil
}

// BlogPostFilter narrows a post listing. Nil fields do not filter.
type BlogPostFilter struct {
	AuthorID   *string
	CategoryID *string
	Published  *bool
}
