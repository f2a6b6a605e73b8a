package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/ratelimit"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

// Stubs embed the service interfaces; tests set only the funcs they need,
// any other call panics on the nil embedded value.

type stubTodos struct {
	TodoService
	create func(title string, description *string, completed bool) (*models.Todo, error)
	list   func(models.TodoFilter, models.Page) ([]*models.Todo, error)
	update func(id string, p models.TodoPatch) (*models.Todo, error)
	get    func(id string) (*models.Todo, error)
	del    func(id string) error
}

func (s *stubTodos) Create(_ context.Context, title string, d *string, c bool) (*models.Todo, error) {
	return s.create(title, d, c)
}
func (s *stubTodos) List(_ context.Context, f models.TodoFilter, p models.Page) ([]*models.Todo, error) {
	return s.list(f, p)
}
func (s *stubTodos) Update(_ context.Context, id string, p models.TodoPatch) (*models.Todo, error) {
	return s.update(id, p)
}
func (s *stubTodos) Get(_ context.Context, id string) (*models.Todo, error) { return s.get(id) }
func (s *stubTodos) Delete(_ context.Context, id string) error           { return s.del(id) }

type stubItems struct {
	ItemService
	create func(models.Item) (*models.Item, error)
}

func (s *stubItems) Create(_ context.Context, in models.Item) (*models.Item, error) {
	return s.create(in)
}

type stubUsers struct {
	UserService
	register func(services.RegisterInput) (*models.User, error)
	login    func(username, password string) (string, error)
	list     func(models.Page) ([]*models.User, error)
}

func (s *stubUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	return s.register(in)
}
func (s *stubUsers) Login(_ context.Context, u, p string) (string, error) { return s.login(u, p) }
func (s *stubUsers) List(_ context.Context, p models.Page) ([]*models.User, error) {
	return s.list(p)
}

type stubTags struct {
	TagService
	create func(name string) (*models.Tag, error)
	list   func(models.Page) ([]*models.Tag, error)
}

func (s *stubTags) Create(_ context.Context, name string) (*models.Tag, error) { return s.create(name) }
func (s *stubTags) List(_ context.Context, p models.Page) ([]*models.Tag, error) {
	return s.list(p)
}

type stubPosts struct {
	BlogPostService
	create func(caller *models.User, in services.BlogPostInput) (*models.BlogPost, error)
	list   func(models.BlogPostFilter, models.Page) ([]*models.BlogPost, error)
	update func(caller *models.User, id string, p models.BlogPostPatch) (*models.BlogPost, error)
	del    func(caller *models.User, id string) error
}

func (s *stubPosts) Create(_ context.Context, c *models.User, in services.BlogPostInput) (*models.BlogPost, error) {
	return s.create(c, in)
}
func (s *stubPosts) List(_ context.Context, f models.BlogPostFilter, p models.Page) ([]*models.BlogPost, error) {
	return s.list(f, p)
}
func (s *stubPosts) Update(_ context.Context, c *models.User, id string, p models.BlogPostPatch) (*models.BlogPost, error) {
	return s.update(c, id, p)
}
func (s *stubPosts) Delete(_ context.Context, c *models.User, id string) error { return s.del(c, id) }

type stubImages struct {
	ImageService
	upload func(up services.Upload, body string) (*models.Image, error)
}

func (s *stubImages) Upload(_ context.Context, up services.Upload) (*models.Image, error) {
	b, err := io.ReadAll(up.Body)
	if err != nil {
		return nil, err
	}
	return s.upload(up, string(b))
}

// stubGuard accepts "Bearer <username>" for usernames in users.
type stubGuard struct {
	users map[string]*models.User
	err   error
}

func (g *stubGuard) Authenticate(_ context.Context, header string) (*models.User, error) {
	if g.err != nil {
		return nil, g.err
	}
	name, ok := strings.CutPrefix(header, "Bearer ")
	if u := g.users[name]; ok && u != nil {
		return u, nil
	}
	return nil, common.Unauthenticated()
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

var testAlice = &models.User{ID: "u1", Username: "alice"}

type testServer struct {
	*Server
	svc   *Services
	guard *stubGuard
	db    *stubPinger
}

func newTestServer(t *testing.T, opts Options, limiter *ratelimit.KeyedRateLimiter) *testServer {
	t.Helper()
	if opts.ItemsPerPage == 0 {
		opts.ItemsPerPage = 10
	}
	if opts.ListPageSize == 0 {
		opts.ListPageSize = 100
	}
	if opts.MaxPageSize == 0 {
		opts.MaxPageSize = 500
	}
	ts := &testServer{
		svc:   &Services{},
		guard: &stubGuard{users: map[string]*models.User{"alice": testAlice}},
		db:    &stubPinger{},
	}
	ts.Server = NewServer(opts, Services{}, ts.guard, ts.db, limiter, logging.Nop{})
	return ts
}

// do sends the request through the router with the stub services in place.
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	ts.Server.svc = *ts.svc
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asAlice(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer alice")
	return req
}
