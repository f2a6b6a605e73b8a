package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/tags"
)

const (
	msgTagNotFound = "Tag not found"
	msgTagTaken    = "Tag name already registered"
)

type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m, now: now}
}

func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.Validation("Name must not be empty", map[string]string{"name": "must not be empty"})
	}
	ts := s.now()
	tag := &models.Tag{ID: newID(), Name: name, CreatedAt: ts, UpdatedAt: ts}

	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		repo := s.repomanager.Tags(tx)
		if err := s.checkName(ctx, repo, name, ""); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repo.Create(ctx, tag)
	})
	if err != nil {
		return nil, classify(err, msgTagNotFound)
	}
	return tag, nil
}

func (s *TagService) Get(ctx context.Context, id string) (*models.Tag, error) {
	tag, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.Tag, error) {
		return s.repomanager.Tags(conn).GetByID(ctx, id)
	})
	return tag, classify(err, msgTagNotFound)
}

func (s *TagService) List(ctx context.Context, page models.Page) ([]*models.Tag, error) {
	list, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.Tag, error) {
		return s.repomanager.Tags(conn).List(ctx, page)
	})
	return list, classify(err, msgTagNotFound)
}

func (s *TagService) Update(ctx context.Context, id string, patch models.TagPatch) (*models.Tag, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, common.Validation("Name must not be empty", map[string]string{"name": "must not be empty"})
	}
	tag, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Tag, error) {
		repo := s.repomanager.Tags(tx)
		tag, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if patch.Name != nil && *patch.Name != tag.Name {
			if err := s.checkName(ctx, repo, *patch.Name, id); err != nil {
				return nil, err
			}
		}
		patch.Apply(tag)
		tag.UpdatedAt = models.Touch(tag.UpdatedAt, s.now())
		if err := repo.Update(ctx, tag); err != nil {
			return nil, err
		}
		return tag, nil
	})
	if err != nil {
		return nil, classify(err, msgTagNotFound)
	}
	return tag, nil
}

// Delete removes the tag and, by cascade, its links to posts.
func (s *TagService) Delete(ctx context.Context, id string) error {
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Tags(tx).Delete(ctx, id)
	})
	return classify(err, msgTagNotFound)
}

func (s *TagService) checkName(ctx context.Context, repo tags.Repository, name, selfID string) error {
	other, err := repo.GetByName(ctx, name)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && other.ID != selfID {
		return common.Conflict(msgTagTaken)
	}
	return nil
}
