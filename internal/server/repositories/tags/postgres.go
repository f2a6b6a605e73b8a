package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectTag = `SELECT id, name, created_at, updated_at FROM tags`

var conflicts = map[string]string{
	"tags_name_key": "Tag name already registered",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanTag(s dbx.Scanner) (*models.Tag, error) {
	t := &models.Tag{}
	if err := s.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) error {
	query :=
		`INSERT INTO tags (id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.CreatedAt, tag.UpdatedAt)
	return dbx.WrapWrite(err, conflicts)
}

func (r *PostgresRepository) get(ctx context.Context, query, arg string) (*models.Tag, error) {
	tag, err := scanTag(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	return r.get(ctx, selectTag+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Tag, error) {
	return r.get(ctx, selectTag+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return r.get(ctx, selectTag+` WHERE name = $1`, name)
}

func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, selectTag+` ORDER BY created_at, id LIMIT $1 OFFSET $2`, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tag *models.Tag) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = $2, updated_at = $3 WHERE id = $1`,
		tag.ID, tag.Name, tag.UpdatedAt)
	if err != nil {
		return dbx.WrapWrite(err, conflicts)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapWrite(err, conflicts)
	}
	return dbx.ExpectAffected(res)
}
