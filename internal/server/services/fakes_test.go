package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogposts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/categories"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/tags"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// newSQLMockDB returns a mock whose expectations cover transaction
// boundaries only; rows live in fakeStore.
func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// harness wires services to fakes; expectations are checked on cleanup.
type harness struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store *fakeStore
	rm    *fakeRepoManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock := newSQLMockDB(t)
	store := newFakeStore()
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	return &harness{db: db, mock: mock, store: store, rm: &fakeRepoManager{store}}
}

// expectTx expects one transaction ending in commit or rollback.
func (h *harness) expectTx(commit bool) {
	h.mock.ExpectBegin()
	if commit {
		h.mock.ExpectCommit()
	} else {
		h.mock.ExpectRollback()
	}
}

func ptr[T any](v T) *T { return &v }

// fakeStore is an in-memory stand-in for every repository. Rows keep
// insertion order. failures injects an error for "family.Method".
type fakeStore struct {
	users      []*models.User
	todos      []*models.Todo
	items      []*models.Item
	categories []*models.Category
	tags       []*models.Tag
	images     []*models.Image
	posts      []*models.BlogPost
	postTags   map[string][]string
	postImages map[string][]string
	failures   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		postTags:   map[string][]string{},
		postImages: map[string][]string{},
		failures:   map[string]error{},
	}
}

func (f *fakeStore) fail(op string) error { return f.failures[op] }

func page[T any](rows []T, p models.Page) []T {
	out := []T{}
	for i := p.Skip; i < len(rows) && len(out) < p.Limit; i++ {
		out = append(out, rows[i])
	}
	return out
}

func find[T any](rows []*T, match func(*T) bool) (*T, int) {
	for i, r := range rows {
		if match(r) {
			return r, i
		}
	}
	return nil, -1
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// fakeRepoManager hands out the same fakes whatever DBTX it gets.
type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository           { return &fakeUsers{m.s} }
func (m *fakeRepoManager) Todos(dbx.DBTX) todos.Repository           { return &fakeTodos{m.s} }
func (m *fakeRepoManager) Items(dbx.DBTX) items.Repository           { return &fakeItems{m.s} }
func (m *fakeRepoManager) Categories(dbx.DBTX) categories.Repository { return &fakeCategories{m.s} }
func (m *fakeRepoManager) Tags(dbx.DBTX) tags.Repository             { return &fakeTags{m.s} }
func (m *fakeRepoManager) Images(dbx.DBTX) images.Repository         { return &fakeImages{m.s} }
func (m *fakeRepoManager) BlogPosts(dbx.DBTX) blogposts.Repository   { return &fakePosts{m.s} }

// --- users ---

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(_ context.Context, u *models.User) error {
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	r.s.users = append(r.s.users, clone(u))
	return nil
}

func (r *fakeUsers) by(match func(*models.User) bool) (*models.User, error) {
	if u, _ := find(r.s.users, match); u != nil {
		return clone(u), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.by(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUsers) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if err := r.s.fail("users.GetByUsername"); err != nil {
		return nil, err
	}
	return r.by(func(u *models.User) bool { return u.Username == username })
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.by(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsers) List(_ context.Context, p models.Page) ([]*models.User, error) {
	return page(r.s.users, p), nil
}

func (r *fakeUsers) Update(_ context.Context, u *models.User) error {
	if _, i := find(r.s.users, func(x *models.User) bool { return x.ID == u.ID }); i >= 0 {
		r.s.users[i] = clone(u)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakeUsers) Delete(_ context.Context, id string) error {
	if _, i := find(r.s.users, func(x *models.User) bool { return x.ID == id }); i >= 0 {
		r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakeUsers) CountPostsByAuthor(_ context.Context, id string) (int, error) {
	n := 0
	for _, p := range r.s.posts {
		if p.AuthorID == id {
			n++
		}
	}
	return n, nil
}

// --- todos ---

type fakeTodos struct{ s *fakeStore }

func (r *fakeTodos) Create(_ context.Context, t *models.Todo) error {
	if err := r.s.fail("todos.Create"); err != nil {
		return err
	}
	r.s.todos = append(r.s.todos, clone(t))
	return nil
}

func (r *fakeTodos) GetByID(_ context.Context, id string) (*models.Todo, error) {
	if err := r.s.fail("todos.GetByID"); err != nil {
		return nil, err
	}
	if t, _ := find(r.s.todos, func(t *models.Todo) bool { return t.ID == id }); t != nil {
		return clone(t), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeTodos) GetForUpdate(ctx context.Context, id string) (*models.Todo, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTodos) List(_ context.Context, f models.TodoFilter, p models.Page) ([]*models.Todo, error) {
	var rows []*models.Todo
	for _, t := range r.s.todos {
		if f.Title != nil && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(*f.Title)) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		rows = append(rows, t)
	}
	return page(rows, p), nil
}

func (r *fakeTodos) Update(_ context.Context, t *models.Todo) error {
	if _, i := find(r.s.todos, func(x *models.Todo) bool { return x.ID == t.ID }); i >= 0 {
		r.s.todos[i] = clone(t)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakeTodos) Delete(_ context.Context, id string) error {
	if _, i := find(r.s.todos, func(x *models.Todo) bool { return x.ID == id }); i >= 0 {
		r.s.todos = append(r.s.todos[:i], r.s.todos[i+1:]...)
		return nil
	}
	return common.ErrNotFound
}

// --- items ---

type fakeItems struct{ s *fakeStore }

func (r *fakeItems) Create(_ context.Context, it *models.Item) error {
	r.s.items = append(r.s.items, clone(it))
	return nil
}

func (r *fakeItems) GetByID(_ context.Context, id string) (*models.Item, error) {
	if it, _ := find(r.s.items, func(x *models.Item) bool { return x.ID == id }); it != nil {
		return clone(it), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeItems) GetForUpdate(ctx context.Context, id string) (*models.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeItems) List(_ context.Context, f models.ItemFilter, p models.Page) ([]*models.Item, error) {
	var rows []*models.Item
	for _, it := range r.s.items {
		if f.Name != nil && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(*f.Name)) {
			continue
		}
		rows = append(rows, it)
	}
	return page(rows, p), nil
}

func (r *fakeItems) Update(_ context.Context, it *models.Item) error {
	if _, i := find(r.s.items, func(x *models.Item) bool { return x.ID == it.ID }); i >= 0 {
		r.s.items[i] = clone(it)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakeItems) Delete(_ context.Context, id string) error {
	if _, i := find(r.s.items, func(x *models.Item) bool { return x.ID == id }); i >= 0 {
		r.s.items = append(r.s.items[:i], r.s.items[i+1:]...)
		return nil
	}
	return common.ErrNotFound
}

// --- categories ---

type fakeCategories struct{ s *fakeStore }

func (r *fakeCategories) Create(_ context.Context, c *models.Category) error {
	r.s.categories = append(r.s.categories, clone(c))
	return nil
}

func (r *fakeCategories) by(match func(*models.Category) bool) (*models.Category, error) {
	if c, _ := find(r.s.categories, match); c != nil {
		return clone(c), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeCategories) GetByID(_ context.Context, id string) (*models.Category, error) {
	return r.by(func(c *models.Category) bool { return c.ID == id })
}

func (r *fakeCategories) GetForUpdate(ctx context.Context, id string) (*models.Category, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeCategories) GetByName(_ context.Context, name string) (*models.Category, error) {
	return r.by(func(c *models.Category) bool { return c.Name == name })
}

func (r *fakeCategories) List(_ context.Context, p models.Page) ([]*models.Category, error) {
	return page(r.s.categories, p), nil
}

func (r *fakeCategories) Update(_ context.Context, c *models.Category) error {
	if _, i := find(r.s.categories, func(x *models.Category) bool { return x.ID == c.ID }); i >= 0 {
		r.s.categories[i] = clone(c)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakeCategories) Delete(_ context.Context, id string) error {
	_, i := find(r.s.categories, func(x *models.Category) bool { return x.ID == id })
	if i < 0 {
		return common.ErrNotFound
	}
	r.s.categories = append(r.s.categories[:i], r.s.categories[i+1:]...)
	for _, p := range r.s.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
	return nil
}

// --- tags ---

type fakeTags struct{ s *fakeStore }

func (r *fakeTags) Create(_ context.Context, t *models.Tag) error {
	r.s.tags = append(r.s.tags, clone(t))
	return nil
}

func (r *fakeTags) by(match func(*models.Tag) bool) (*models.Tag, error) {
	if t, _ := find(r.s.tags, match); t != nil {
		return clone(t), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeTags) GetByID(_ context.Context, id string) (*models.Tag, error) {
	return r.by(func(t *models.Tag) bool { return t.ID == id })
}

func (r *fakeTags) GetForUpdate(ctx context.Context, id string) (*models.Tag, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTags) GetByName(_ context.Context, name string) (*models.Tag, error) {
	return r.by(func(t *models.Tag) bool { return t.Name == name })
}

func (r *fakeTags) List(_ context.Context, p models.Page) ([]*models.Tag, error) {
	return page(r.s.tags, p), nil
}

func (r *fakeTags) Update(_ context.Context, t *models.Tag) error {
	if _, i := find(r.s.tags, func(x *models.Tag) bool { return x.ID == t.ID }); i >= 0 {
		r.s.tags[i] = clone(t)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakeTags) Delete(_ context.Context, id string) error {
	_, i := find(r.s.tags, func(x *models.Tag) bool { return x.ID == id })
	if i < 0 {
		return common.ErrNotFound
	}
	r.s.tags = append(r.s.tags[:i], r.s.tags[i+1:]...)
	for post, ids := range r.s.postTags {
		r.s.postTags[post] = without(ids, id)
	}
	return nil
}

// --- images ---

type fakeImages struct{ s *fakeStore }

func (r *fakeImages) Create(_ context.Context, im *models.Image) error {
	if err := r.s.fail("images.Create"); err != nil {
		return err
	}
	r.s.images = append(r.s.images, clone(im))
	return nil
}

func (r *fakeImages) GetByID(_ context.Context, id string) (*models.Image, error) {
	if im, _ := find(r.s.images, func(x *models.Image) bool { return x.ID == id }); im != nil {
		return clone(im), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeImages) List(_ context.Context, p models.Page) ([]*models.Image, error) {
	return page(r.s.images, p), nil
}

func (r *fakeImages) Delete(_ context.Context, id string) (string, error) {
	im, i := find(r.s.images, func(x *models.Image) bool { return x.ID == id })
	if i < 0 {
		return "", common.ErrNotFound
	}
	r.s.images = append(r.s.images[:i], r.s.images[i+1:]...)
	return im.StorageKey, nil
}

// --- blog posts ---

type fakePosts struct{ s *fakeStore }

func (r *fakePosts) Create(_ context.Context, p *models.BlogPost) error {
	r.s.posts = append(r.s.posts, clone(p))
	return nil
}

func (r *fakePosts) load(p *models.BlogPost) *models.BlogPost {
	c := clone(p)
	c.TagIDs = append([]string{}, r.s.postTags[p.ID]...)
	c.ImageIDs = append([]string{}, r.s.postImages[p.ID]...)
	return c
}

func (r *fakePosts) GetByID(_ context.Context, id string) (*models.BlogPost, error) {
	if p, _ := find(r.s.posts, func(x *models.BlogPost) bool { return x.ID == id }); p != nil {
		return r.load(p), nil
	}
	return nil, common.ErrNotFound
}

func (r *fakePosts) GetForUpdate(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePosts) List(_ context.Context, f models.BlogPostFilter, pg models.Page) ([]*models.BlogPost, error) {
	var rows []*models.BlogPost
	for _, p := range r.s.posts {
		if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.Published != nil && p.Published != *f.Published {
			continue
		}
		rows = append(rows, r.load(p))
	}
	return page(rows, pg), nil
}

func (r *fakePosts) Update(_ context.Context, p *models.BlogPost) error {
	if _, i := find(r.s.posts, func(x *models.BlogPost) bool { return x.ID == p.ID }); i >= 0 {
		r.s.posts[i] = clone(p)
		return nil
	}
	return common.ErrNotFound
}

func (r *fakePosts) Delete(_ context.Context, id string) error {
	_, i := find(r.s.posts, func(x *models.BlogPost) bool { return x.ID == id })
	if i < 0 {
		return common.ErrNotFound
	}
	r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)
	delete(r.s.postTags, id)
	delete(r.s.postImages, id)
	return nil
}

func (r *fakePosts) ReplaceTags(_ context.Context, postID string, ids []string) error {
	r.s.postTags[postID] = existing(ids, func(id string) bool {
		t, _ := find(r.s.tags, func(x *models.Tag) bool { return x.ID == id })
		return t != nil
	})
	return nil
}

func (r *fakePosts) ReplaceImages(_ context.Context, postID string, ids []string) error {
	r.s.postImages[postID] = existing(ids, func(id string) bool {
		im, _ := find(r.s.images, func(x *models.Image) bool { return x.ID == id })
		return im != nil
	})
	return nil
}

func (r *fakePosts) TagIDs(_ context.Context, postID string) ([]string, error) {
	return append([]string{}, r.s.postTags[postID]...), nil
}

func (r *fakePosts) ImageIDs(_ context.Context, postID string) ([]string, error) {
	return append([]string{}, r.s.postImages[postID]...), nil
}

// existing keeps the distinct ids accepted by ok, sorted like the store
// returns them.
func existing(ids []string, ok func(string) bool) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		if !seen[id] && ok(id) {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func without(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
