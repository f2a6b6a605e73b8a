package images

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id string) (*models.Image, error)
	List(ctx context.Context, page models.Page) ([]*models.Image, error)
	Delete(ctx context.Context, id string) (storageKey string, err error)
}
