package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/blob"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type migrator struct {
	repomanager.RepositoryManager
	err   error
	calls int
}

func (m *migrator) RunMigrations(context.Context, *sql.DB) error {
	m.calls++
	return m.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.UploadDir = filepath.Join(t.TempDir(), "images")
	c.BcryptCost = 4
	return c
}

func TestNewBlobStore_Local(t *testing.T) {
	c := testConfig(t)

	store, dir, err := newBlobStore(context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &blob.LocalStore{}, store)
	assert.Equal(t, c.UploadDir, dir)
	assert.Equal(t, "/static/images/a.png", store.URL("a.png"))
}

func TestNewBlobStore_S3RequiresBucket(t *testing.T) {
	c := testConfig(t)
	c.BlobBackend = config.BlobBackendS3

	_, _, err := newBlobStore(context.Background(), c)
	assert.Error(t, err)
}

func TestRestOptions(t *testing.T) {
	c := testConfig(t)
	c.CORSOrigins = []string{"https://blog.example"}
	c.TrustProxyHeaders = true

	opts := restOptions(c, "/srv/images")
	assert.Equal(t, ":8000", opts.Address)
	assert.Equal(t, 10, opts.ItemsPerPage)
	assert.Equal(t, 100, opts.ListPageSize)
	assert.Equal(t, "/srv/images", opts.StaticDir)
	assert.Equal(t, c.CORSOrigins, opts.CORSOrigins)
	assert.True(t, opts.TrustProxyHeaders)
}

func TestNewApp_WiresRoutes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	m := &migrator{RepositoryManager: repomanager.NewPostgresRepositoryManager()}
	app, err := newApp(context.Background(), testConfig(t), db, m, logging.Nop{})
	require.NoError(t, err)
	defer app.limiter.Stop()
	assert.Equal(t, 1, m.calls)

	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.server.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/blog_posts/p1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_MigrationFailure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &migrator{err: errors.New("dirty database")}
	_, err = newApp(context.Background(), testConfig(t), db, m, logging.Nop{})
	assert.ErrorContains(t, err, "migrations")
}

func TestNewApp_BadAlgorithm(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := testConfig(t)
	c.SigningAlgorithm = "none"
	_, err = newApp(context.Background(), c, db, &migrator{}, logging.Nop{})
	assert.ErrorContains(t, err, "token service")
}
