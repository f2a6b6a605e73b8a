package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectTodo = `SELECT id, title, description, completed, created_at, updated_at FROM todos`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanTodo(s dbx.Scanner) (*models.Todo, error) {
	t := &models.Todo{}
	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) error {
	query :=
		`INSERT INTO todos (id, title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Completed, todo.CreatedAt, todo.UpdatedAt)

	return dbx.WrapWrite(err, nil)
}

func (r *PostgresRepository) get(ctx context.Context, query, id string) (*models.Todo, error) {
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	return r.get(ctx, selectTodo+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Todo, error) {
	return r.get(ctx, selectTodo+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.TodoFilter, page models.Page) ([]*models.Todo, error) {
	var where dbx.Where
	if filter.Title != nil {
		where.Add(`title ILIKE ?`, dbx.Contains(*filter.Title))
	}
	if filter.Completed != nil {
		where.Add(`completed = ?`, *filter.Completed)
	}
	limit, args := where.Paginate(page.Limit, page.Skip)

	rows, err := r.db.QueryContext(ctx, selectTodo+where.SQL()+` ORDER BY created_at, id`+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) error {
	query :=
		`UPDATE todos SET title = $2, description = $3, completed = $4, updated_at = $5
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Completed, todo.UpdatedAt)
	if err != nil {
		return dbx.WrapWrite(err, nil)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapWrite(err, nil)
	}
	return dbx.ExpectAffected(res)
}
