package services

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/blob"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const msgImageNotFound = "Image not found"

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	AltText     *string
}

// ImageService keeps image bytes in a blob store and metadata in the
// database. Bytes are written first; metadata only for stored blobs.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       blob.Store
	logger      logging.Logger
	now         func() time.Time
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, store blob.Store, logger logging.Logger) *ImageService {
	return &ImageService{db: db, repomanager: m, store: store, logger: logger, now: now}
}

// Upload stores the bytes under a fresh "<uuid><ext>" key, then inserts the
// metadata row. A failed insert removes the blob again.
func (s *ImageService) Upload(ctx context.Context, up Upload) (*models.Image, error) {
	key := newID() + extension(up.Filename)

	if err := s.store.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		s.logger.Error(ctx, "blob put failed", "key", key, "error", err)
		return nil, common.Upload(err)
	}

	ts := s.now()
	image := &models.Image{
		ID:         newID(),
		URL:        s.store.URL(key),
		AltText:    up.AltText,
		Filename:   key,
		StorageKey: key,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Images(tx).Create(ctx, image)
	})
	if err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Warn(ctx, "orphan blob left after failed insert", "key", key, "error", derr)
		}
		return nil, classify(err, msgImageNotFound)
	}
	return image, nil
}

func (s *ImageService) Get(ctx context.Context, id string) (*models.Image, error) {
	image, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.Image, error) {
		return s.repomanager.Images(conn).GetByID(ctx, id)
	})
	return image, classify(err, msgImageNotFound)
}

func (s *ImageService) List(ctx context.Context, page models.Page) ([]*models.Image, error) {
	list, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.Image, error) {
		return s.repomanager.Images(conn).List(ctx, page)
	})
	return list, classify(err, msgImageNotFound)
}

// Delete removes the row, then the blob when present. Blob failures are
// logged only; the image is gone for clients either way.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	key, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (string, error) {
		return s.repomanager.Images(tx).Delete(ctx, id)
	})
	if err != nil {
		return classify(err, msgImageNotFound)
	}

	ctx = context.WithoutCancel(ctx)
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "blob lookup failed", "key", key, "error", err)
		return nil
	}
	if ok {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "blob delete failed", "key", key, "error", err)
		}
	}
	return nil
}

// extension returns the extension of name with its dot and original case,
// or "" when it has none or contains characters unsafe in a storage key.
func extension(name string) string {
	ext := filepath.Ext(filepath.Base(name))
	if len(ext) < 2 || len(ext) > 16 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
