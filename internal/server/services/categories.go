package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/categories"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const (
	msgCategoryNotFound = "Category not found"
	msgCategoryTaken    = "Category name already registered"
)

type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m, now: now}
}

// Create rejects a name already in use with Conflict.
func (s *CategoryService) Create(ctx context.Context, name string, description *string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.Validation("Name must not be empty", map[string]string{"name": "must not be empty"})
	}
	ts := s.now()
	category := &models.Category{ID: newID(), Name: name, Description: description, CreatedAt: ts, UpdatedAt: ts}

	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		repo := s.repomanager.Categories(tx)
		if err := s.checkName(ctx, repo, name, ""); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repo.Create(ctx, category)
	})
	if err != nil {
		return nil, classify(err, msgCategoryNotFound)
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.Category, error) {
		return s.repomanager.Categories(conn).GetByID(ctx, id)
	})
	return c, classify(err, msgCategoryNotFound)
}

func (s *CategoryService) List(ctx context.Context, page models.Page) ([]*models.Category, error) {
	list, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.Category, error) {
		return s.repomanager.Categories(conn).List(ctx, page)
	})
	return list, classify(err, msgCategoryNotFound)
}

func (s *CategoryService) Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, common.Validation("Name must not be empty", map[string]string{"name": "must not be empty"})
	}
	c, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Category, error) {
		repo := s.repomanager.Categories(tx)
		c, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if patch.Name != nil && *patch.Name != c.Name {
			if err := s.checkName(ctx, repo, *patch.Name, id); err != nil {
				return nil, err
			}
		}
		patch.Apply(c)
		c.UpdatedAt = models.Touch(c.UpdatedAt, s.now())
		if err := repo.Update(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return nil, classify(err, msgCategoryNotFound)
	}
	return c, nil
}

// Delete removes the category; posts in it lose their category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Categories(tx).Delete(ctx, id)
	})
	return classify(err, msgCategoryNotFound)
}

func (s *CategoryService) checkName(ctx context.Context, repo categories.Repository, name, selfID string) error {
	other, err := repo.GetByName(ctx, name)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && other.ID != selfID {
		return common.Conflict(msgCategoryTaken)
	}
	return nil
}
