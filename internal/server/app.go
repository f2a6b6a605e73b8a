// Package server wires configuration, storage, services and the HTTP API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/cryptox"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/ratelimit"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/blob"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/rest"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout     = 5 * time.Second
	limiterIdleTTL  = 10 * time.Minute
	maxOpenConns    = 20
	connMaxIdleTime = 5 * time.Minute
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	limiter *ratelimit.KeyedRateLimiter
	server  *rest.Server
}

// OpenDB opens the PostgreSQL pool through pgx and checks it is reachable.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// NewUserService builds the account service the HTTP API and the
// createuser command share.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, c *config.Config) (*services.UserService, *auth.TokenService, error) {
	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, nil, fmt.Errorf("token service: %w", err)
	}
	return services.NewUserService(db, m, cryptox.NewHasher(c.BcryptCost), tokens), tokens, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	db, err := OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, c, db, repomanager.NewPostgresRepositoryManager(), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	users, tokens, err := NewUserService(db, m, c)
	if err != nil {
		return nil, err
	}

	store, staticDir, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, err
	}

	var limiter *ratelimit.KeyedRateLimiter
	if c.LoginRatePerSecond > 0 {
		limiter = ratelimit.New(c.LoginRatePerSecond, c.LoginBurst, limiterIdleTTL)
	}

	svc := rest.Services{
		Todos:      services.NewTodoService(db, m),
		Items:      services.NewItemService(db, m),
		Categories: services.NewCategoryService(db, m),
		Tags:       services.NewTagService(db, m),
		Users:      users,
		BlogPosts:  services.NewBlogPostService(db, m),
		Images:     services.NewImageService(db, m, store, logger.With("module", "images")),
	}

	server := rest.NewServer(restOptions(c, staticDir), svc, auth.NewGuard(tokens, users), db, limiter, logger)

	return &App{config: c, logger: logger, db: db, limiter: limiter, server: server}, nil
}

func restOptions(c *config.Config, staticDir string) rest.Options {
	return rest.Options{
		Address:        c.EndpointAddrHTTP,
		ItemsPerPage:   c.ItemsPerPage,
		ListPageSize:   c.ListPageSize,
		MaxPageSize:    c.MaxPageSize,
		MaxUploadBytes: c.MaxUploadBytes,
		CORSOrigins:    c.CORSOrigins,
		StaticDir:      staticDir,

		TrustProxyHeaders: c.TrustProxyHeaders,
	}
}

// newBlobStore returns the configured store and, for the local backend, the
// directory to serve under /static/images/.
func newBlobStore(ctx context.Context, c *config.Config) (blob.Store, string, error) {
	switch c.BlobBackend {
	case config.BlobBackendS3:
		store, err := blob.NewS3Store(ctx, blob.S3Config{
			Region:       c.S3Region,
			Endpoint:     c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			PublicURL:    c.S3PublicURL,
			UsePathStyle: c.S3UsePathStyle,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 store: %w", err)
		}
		return store, "", nil
	default:
		store, err := blob.NewLocalStore(c.UploadDir, c.StaticBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("local store: %w", err)
		}
		return store, store.Dir(), nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails, then
// releases the database pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.limiter != nil {
		app.limiter.Stop()
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
