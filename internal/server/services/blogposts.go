package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogposts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const msgBlogPostNotFound = "Blog post not found"

// BlogPostInput is the content of a new post. Tag and image ids that do not
// exist are ignored.
type BlogPostInput struct {
	Title       string
	Content     string
	CategoryID  *string
	Published   bool
	PublishedAt *time.Time
	TagIDs      []string
	ImageIDs    []string
}

type BlogPostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewBlogPostService(db *sql.DB, m repomanager.RepositoryManager) *BlogPostService {
	return &BlogPostService{db: db, repomanager: m, now: now}
}

// Create stores a post authored by caller together with its links.
func (s *BlogPostService) Create(ctx context.Context, caller *models.User, in BlogPostInput) (*models.BlogPost, error) {
	if caller == nil {
		return nil, common.Unauthenticated()
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.Validation("Title must not be empty", map[string]string{"title": "must not be empty"})
	}

	ts := s.now()
	post := &models.BlogPost{
		ID:          newID(),
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    caller.ID,
		CategoryID:  in.CategoryID,
		Published:   in.Published,
		PublishedAt: in.PublishedAt,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	created, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.BlogPost, error) {
		if err := s.checkCategory(ctx, tx, post.CategoryID); err != nil {
			return nil, err
		}
		repo := s.repomanager.BlogPosts(tx)
		if err := repo.Create(ctx, post); err != nil {
			return nil, err
		}
		if len(in.TagIDs) > 0 {
			if err := repo.ReplaceTags(ctx, post.ID, in.TagIDs); err != nil {
				return nil, err
			}
		}
		if len(in.ImageIDs) > 0 {
			if err := repo.ReplaceImages(ctx, post.ID, in.ImageIDs); err != nil {
				return nil, err
			}
		}
		return repo.GetByID(ctx, post.ID)
	})
	if err != nil {
		return nil, classify(err, msgBlogPostNotFound)
	}
	return created, nil
}

func (s *BlogPostService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.BlogPost, error) {
		return s.repomanager.BlogPosts(conn).GetByID(ctx, id)
	})
	return post, classify(err, msgBlogPostNotFound)
}

func (s *BlogPostService) List(ctx context.Context, filter models.BlogPostFilter, page models.Page) ([]*models.BlogPost, error) {
	list, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.BlogPost, error) {
		return s.repomanager.BlogPosts(conn).List(ctx, filter, page)
	})
	return list, classify(err, msgBlogPostNotFound)
}

// Update checks existence, then ownership, then applies patch. A present
// tag or image list replaces the stored links.
func (s *BlogPostService) Update(ctx context.Context, caller *models.User, id string, patch models.BlogPostPatch) (*models.BlogPost, error) {
	if caller == nil {
		return nil, common.Unauthenticated()
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, common.Validation("Title must not be empty", map[string]string{"title": "must not be empty"})
	}

	post, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.BlogPost, error) {
		repo := s.repomanager.BlogPosts(tx)
		post, err := s.owned(ctx, repo, caller, id, "update")
		if err != nil {
			return nil, err
		}
		if !patch.ClearCategory {
			if err := s.checkCategory(ctx, tx, patch.CategoryID); err != nil {
				return nil, err
			}
		}

		patch.Apply(post)
		post.UpdatedAt = models.Touch(post.UpdatedAt, s.now())
		if err := repo.Update(ctx, post); err != nil {
			return nil, err
		}
		if patch.TagIDs != nil {
			if err := repo.ReplaceTags(ctx, id, *patch.TagIDs); err != nil {
				return nil, err
			}
		}
		if patch.ImageIDs != nil {
			if err := repo.ReplaceImages(ctx, id, *patch.ImageIDs); err != nil {
				return nil, err
			}
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, classify(err, msgBlogPostNotFound)
	}
	return post, nil
}

// Delete checks existence, then ownership.
func (s *BlogPostService) Delete(ctx context.Context, caller *models.User, id string) error {
	if caller == nil {
		return common.Unauthenticated()
	}
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		repo := s.repomanager.BlogPosts(tx)
		if _, err := s.owned(ctx, repo, caller, id, "delete"); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repo.Delete(ctx, id)
	})
	return classify(err, msgBlogPostNotFound)
}

// owned locks the post and verifies caller authored it.
func (s *BlogPostService) owned(ctx context.Context, repo blogposts.Repository, caller *models.User, id, action string) (*models.BlogPost, error) {
	post, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, post.AuthorID, action); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogPostService) checkCategory(ctx context.Context, tx dbx.DBTX, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.repomanager.Categories(tx).GetByID(ctx, *id)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if !found {
		return common.Validation(msgCategoryNotFound, map[string]string{"category_id": "not found"})
	}
	return nil
}
