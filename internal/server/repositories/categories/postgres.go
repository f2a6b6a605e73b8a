package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectCategory = `SELECT id, name, description, created_at, updated_at FROM categories`

var conflicts = map[string]string{
	"categories_name_key": "Category name already registered",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCategory(s dbx.Scanner) (*models.Category, error) {
	c := &models.Category{}
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Category) error {
	query :=
		`INSERT INTO categories (id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	return dbx.WrapWrite(err, conflicts)
}

func (r *PostgresRepository) get(ctx context.Context, query, arg string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.get(ctx, selectCategory+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Category, error) {
	return r.get(ctx, selectCategory+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.get(ctx, selectCategory+` WHERE name = $1`, name)
}

func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, selectCategory+` ORDER BY created_at, id LIMIT $1 OFFSET $2`, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Category) error {
	query :=
		`UPDATE categories SET name = $2, description = $3, updated_at = $4
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		return dbx.WrapWrite(err, conflicts)
	}
	return dbx.ExpectAffected(res)
}

// Delete removes the category; posts referencing it keep existing with no
// category.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapWrite(err, conflicts)
	}
	return dbx.ExpectAffected(res)
}
