package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectItem = `SELECT id, name, description, price, tax, created_at, updated_at FROM items`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanItem(s dbx.Scanner) (*models.Item, error) {
	i := &models.Item{}
	if err := s.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.Tax, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return i, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) error {
	query :=
		`INSERT INTO items (id, name, description, price, tax, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Description, item.Price, item.Tax, item.CreatedAt, item.UpdatedAt)

	return dbx.WrapWrite(err, nil)
}

func (r *PostgresRepository) get(ctx context.Context, query, id string) (*models.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	return r.get(ctx, selectItem+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Item, error) {
	return r.get(ctx, selectItem+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ItemFilter, page models.Page) ([]*models.Item, error) {
	var where dbx.Where
	if filter.Name != nil {
		where.Add(`name ILIKE ?`, dbx.Contains(*filter.Name))
	}
	limit, args := where.Paginate(page.Limit, page.Skip)

	rows, err := r.db.QueryContext(ctx, selectItem+where.SQL()+` ORDER BY created_at, id`+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *models.Item) error {
	query :=
		`UPDATE items SET name = $2, description = $3, price = $4, tax = $5, updated_at = $6
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Description, item.Price, item.Tax, item.UpdatedAt)
	if err != nil {
		return dbx.WrapWrite(err, nil)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapWrite(err, nil)
	}
	return dbx.ExpectAffected(res)
}
