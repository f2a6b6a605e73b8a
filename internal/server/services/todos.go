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
)

const msgTodoNotFound = "Todo not found"

type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m, now: now}
}

// Create stores a new todo. ID and timestamps are assigned here.
func (s *TodoService) Create(ctx context.Context, title string, description *string, completed bool) (*models.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, common.Validation("Title must not be empty", map[string]string{"title": "must not be empty"})
	}
	ts := s.now()
	todo := &models.Todo{
		ID:          newID(),
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Todos(tx).Create(ctx, todo)
	})
	if err != nil {
		return nil, classify(err, msgTodoNotFound)
	}
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.Todo, error) {
		return s.repomanager.Todos(conn).GetByID(ctx, id)
	})
	return todo, classify(err, msgTodoNotFound)
}

func (s *TodoService) List(ctx context.Context, filter models.TodoFilter, page models.Page) ([]*models.Todo, error) {
	todos, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.Todo, error) {
		return s.repomanager.Todos(conn).List(ctx, filter, page)
	})
	return todos, classify(err, msgTodoNotFound)
}

// Update merges patch into the stored todo under a row lock.
func (s *TodoService) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, common.Validation("Title must not be empty", map[string]string{"title": "must not be empty"})
	}
	todo, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Todo, error) {
		repo := s.repomanager.Todos(tx)
		todo, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		patch.Apply(todo)
		todo.UpdatedAt = models.Touch(todo.UpdatedAt, s.now())
		if err := repo.Update(ctx, todo); err != nil {
			return nil, err
		}
		return todo, nil
	})
	if err != nil {
		return nil, classify(err, msgTodoNotFound)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Todos(tx).Delete(ctx, id)
	})
	return classify(err, msgTodoNotFound)
}
