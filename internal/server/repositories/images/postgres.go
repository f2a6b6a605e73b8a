package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectImage = `SELECT id, url, alt_text, filename, storage_key, created_at, updated_at FROM images`

// PostgresRepository stores image metadata over a dbx.DBTX. The image bytes
// live in the blob store under storage_key.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanImage(s dbx.Scanner) (*models.Image, error) {
	i := &models.Image{}
	if err := s.Scan(&i.ID, &i.URL, &i.AltText, &i.Filename, &i.StorageKey, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts the metadata row of an already stored blob.
func (r *PostgresRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (id, url, alt_text, filename, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		image.ID, image.URL, image.AltText, image.Filename, image.StorageKey, image.CreatedAt, image.UpdatedAt)
	return dbx.WrapWrite(err, nil)
}

// GetByID returns common.ErrNotFound for an unknown id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	image, err := scanImage(r.db.QueryRowContext(ctx, selectImage+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return image, nil
}

// List returns images in upload order.
func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Image, error) {
	rows, err := r.db.QueryContext(ctx, selectImage+` ORDER BY created_at, id LIMIT $1 OFFSET $2`, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Delete removes the row and returns the storage key of its blob so the
// caller can remove the bytes after commit.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx, `DELETE FROM images WHERE id = $1 RETURNING storage_key`, id).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", dbx.WrapWrite(err, nil)
	}
	return key, nil
}
