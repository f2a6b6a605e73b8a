package blogposts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectPost = `SELECT id, title, content, author_id, category_id, published, published_at, created_at, updated_at FROM blog_posts`

var conflicts = map[string]string{
	"blog_posts_author_id_fkey":   "Author not found",
	"blog_posts_category_id_fkey": "Category not found",
}

// association describes one link table.
type association struct {
	table  string
	column string
	target string
}

var (
	tagLinks   = association{table: "blog_post_tags", column: "tag_id", target: "tags"}
	imageLinks = association{table: "blog_post_images", column: "image_id", target: "images"}
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPost(s dbx.Scanner) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	err := s.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CategoryID, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TagIDs = []string{}
	p.ImageIDs = []string{}
	return p, nil
}

// Create inserts the post row only; links are written with ReplaceTags and
// ReplaceImages in the same transaction.
func (r *PostgresRepository) Create(ctx context.Context, post *models.BlogPost) error {
	query :=
		`INSERT INTO blog_posts (id, title, content, author_id, category_id, published, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.AuthorID, post.CategoryID,
		post.Published, post.PublishedAt, post.CreatedAt, post.UpdatedAt)

	return dbx.WrapWrite(err, conflicts)
}

func (r *PostgresRepository) get(ctx context.Context, query, id string) (*models.BlogPost, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.attach(ctx, []*models.BlogPost{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.get(ctx, selectPost+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.get(ctx, selectPost+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.BlogPostFilter, page models.Page) ([]*models.BlogPost, error) {
	var where dbx.Where
	if filter.AuthorID != nil {
		where.Add(`author_id = ?`, *filter.AuthorID)
	}
	if filter.CategoryID != nil {
		where.Add(`category_id = ?`, *filter.CategoryID)
	}
	if filter.Published != nil {
		where.Add(`published = ?`, *filter.Published)
	}
	limit, args := where.Paginate(page.Limit, page.Skip)

	rows, err := r.db.QueryContext(ctx, selectPost+where.SQL()+` ORDER BY created_at, id`+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.BlogPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	rows.Close()

	if err := r.attach(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes the scalar columns. author_id is never changed.
func (r *PostgresRepository) Update(ctx context.Context, post *models.BlogPost) error {
	query :=
		`UPDATE blog_posts SET title = $2, content = $3, category_id = $4, published = $5,
		 published_at = $6, updated_at = $7
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.CategoryID, post.Published, post.PublishedAt, post.UpdatedAt)
	if err != nil {
		return dbx.WrapWrite(err, conflicts)
	}
	return dbx.ExpectAffected(res)
}

// Delete removes the post; its link rows go with it by cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapWrite(err, conflicts)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) ReplaceTags(ctx context.Context, postID string, tagIDs []string) error {
	return r.replace(ctx, tagLinks, postID, tagIDs)
}

func (r *PostgresRepository) ReplaceImages(ctx context.Context, postID string, imageIDs []string) error {
	return r.replace(ctx, imageLinks, postID, imageIDs)
}

func (r *PostgresRepository) TagIDs(ctx context.Context, postID string) ([]string, error) {
	links, err := r.links(ctx, tagLinks, []string{postID})
	if err != nil {
		return nil, err
	}
	return links[postID], nil
}

func (r *PostgresRepository) ImageIDs(ctx context.Context, postID string) ([]string, error) {
	links, err := r.links(ctx, imageLinks, []string{postID})
	if err != nil {
		return nil, err
	}
	return links[postID], nil
}

// replace deletes all links of postID and inserts one link per id that
// resolves in the target table, so unknown ids are dropped without error.
func (r *PostgresRepository) replace(ctx context.Context, a association, postID string, ids []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+a.table+` WHERE blog_post_id = $1`, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	query := `INSERT INTO ` + a.table + ` (blog_post_id, ` + a.column + `)
		 SELECT $1, id FROM ` + a.target + ` WHERE id = ANY($2)
		 ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, postID, ids); err != nil {
		return dbx.WrapWrite(err, nil)
	}
	return nil
}

// links returns the linked ids per post, each list ordered by id.
func (r *PostgresRepository) links(ctx context.Context, a association, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	for _, id := range postIDs {
		result[id] = []string{}
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT blog_post_id, ` + a.column + ` FROM ` + a.table +
		` WHERE blog_post_id = ANY($1) ORDER BY blog_post_id, ` + a.column

	rows, err := r.db.QueryContext(ctx, query, postIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, linked string
		if err := rows.Scan(&postID, &linked); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[postID] = append(result[postID], linked)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// attach fills TagIDs and ImageIDs of posts with one query per link table.
func (r *PostgresRepository) attach(ctx context.Context, posts []*models.BlogPost) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	tags, err := r.links(ctx, tagLinks, ids)
	if err != nil {
		return err
	}
	images, err := r.links(ctx, imageLinks, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.TagIDs = tags[p.ID]
		p.ImageIDs = images[p.ID]
	}
	return nil
}
