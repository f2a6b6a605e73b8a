// Package rest exposes the blog services over HTTP with a chi router.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

const (
	apiPrefix       = "/api/v1"
	staticPrefix    = "/static/images/"
	shutdownTimeout = 10 * time.Second
)

// Options configures the HTTP surface.
type Options struct {
	Address        string
	ItemsPerPage   int
	ListPageSize   int
	MaxPageSize    int
	MaxUploadBytes int64
	CORSOrigins    []string
	// StaticDir serves uploaded images under /static/images/ when set.
	StaticDir string
	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool
}

type Server struct {
	opts      Options
	svc       Services
	guard     Authenticator
	db        Pinger
	limiter   *ratelimit.KeyedRateLimiter
	validator *validator.Validate
	logger    logging.Logger
	router    chi.Router
}

// NewServer wires routes for every service. limiter throttles login
// attempts per client address and may be nil.
func NewServer(opts Options, svc Services, guard Authenticator, db Pinger, limiter *ratelimit.KeyedRateLimiter, l logging.Logger) *Server {
	s := &Server{
		opts:      opts,
		svc:       svc,
		guard:     guard,
		db:        db,
		limiter:   limiter,
		validator: newValidator(),
		logger:    l.With("module", "rest_server"),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.opts.TrustProxyHeaders {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	if s.opts.StaticDir != "" {
		s.router.Handle(staticPrefix+"*", s.staticImages())
	}

	s.router.Route(apiPrefix, func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			r.Post("/", s.handleCreateTodo)
			r.Get("/", s.handleListTodos)
			r.Get("/{id}", s.handleGetTodo)
			r.Put("/{id}", s.handleUpdateTodo)
			r.Delete("/{id}", s.handleDeleteTodo)
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", s.handleCreateItem)
			r.Get("/", s.handleListItems)
			r.Get("/{id}", s.handleGetItem)
			r.Put("/{id}", s.handleUpdateItem)
			r.Delete("/{id}", s.handleDeleteItem)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleRegister)
			r.With(s.throttleLogin).Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/", s.handleListUsers)
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Delete("/{id}", s.handleDeleteUser)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Get("/{id}", s.handleGetCategory)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateCategory)
				r.Put("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.Get("/{id}", s.handleGetTag)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateTag)
				r.Put("/{id}", s.handleUpdateTag)
				r.Delete("/{id}", s.handleDeleteTag)
			})
		})

		r.Route("/blog_posts", func(r chi.Router) {
			r.Get("/", s.handleListBlogPosts)
			r.Get("/{id}", s.handleGetBlogPost)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateBlogPost)
				r.Put("/{id}", s.handleUpdateBlogPost)
				r.Delete("/{id}", s.handleDeleteBlogPost)
			})
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/", s.handleListImages)
			r.Get("/{id}", s.handleGetImage)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/upload", s.handleUploadImage)
				r.Delete("/{id}", s.handleDeleteImage)
			})
		})
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
