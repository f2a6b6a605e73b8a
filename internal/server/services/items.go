package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const msgItemNotFound = "Item not found"

type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m, now: now}
}

// Create stores a copy of in with a fresh ID and timestamps.
func (s *ItemService) Create(ctx context.Context, in models.Item) (*models.Item, error) {
	ts := s.now()
	item := &models.Item{
		ID:          newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Tax:         in.Tax,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Items(tx).Create(ctx, item)
	})
	if err != nil {
		return nil, classify(err, msgItemNotFound)
	}
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (*models.Item, error) {
	item, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.Item, error) {
		return s.repomanager.Items(conn).GetByID(ctx, id)
	})
	return item, classify(err, msgItemNotFound)
}

func (s *ItemService) List(ctx context.Context, filter models.ItemFilter, page models.Page) ([]*models.Item, error) {
	items, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.Item, error) {
		return s.repomanager.Items(conn).List(ctx, filter, page)
	})
	return items, classify(err, msgItemNotFound)
}

func (s *ItemService) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	item, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Item, error) {
		repo := s.repomanager.Items(tx)
		item, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		patch.Apply(item)
		item.UpdatedAt = models.Touch(item.UpdatedAt, s.now())
		if err := repo.Update(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	})
	if err != nil {
		return nil, classify(err, msgItemNotFound)
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id string) error {
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Items(tx).Delete(ctx, id)
	})
	return classify(err, msgItemNotFound)
}
