package blogposts

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository stores blog posts and their tag/image association rows.
// Returned posts carry their TagIDs and ImageIDs.
type Repository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	GetForUpdate(ctx context.Context, id string) (*models.BlogPost, error)
	List(ctx context.Context, filter models.BlogPostFilter, page models.Page) ([]*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id string) error

	// ReplaceTags drops every tag link of the post and links the given
	// tags. Ids that name no tag are skipped.
	ReplaceTags(ctx context.Context, postID string, tagIDs []string) error
	// ReplaceImages does the same for image links.
	ReplaceImages(ctx context.Context, postID string, imageIDs []string) error
	TagIDs(ctx context.Context, postID string) ([]string, error)
	ImageIDs(ctx context.Context, postID string) ([]string, error)
}
