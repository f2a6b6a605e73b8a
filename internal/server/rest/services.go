package rest

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

type TodoService interface {
	Create(ctx context.Context, title string, description *string, completed bool) (*models.Todo, error)
	Get(ctx context.Context, id string) (*models.Todo, error)
	List(ctx context.Context, filter models.TodoFilter, page models.Page) ([]*models.Todo, error)
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
}

type ItemService interface {
	Create(ctx context.Context, in models.Item) (*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter, page models.Page) ([]*models.Item, error)
	Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

type CategoryService interface {
	Create(ctx context.Context, name string, description *string) (*models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, page models.Page) ([]*models.Category, error)
	Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type TagService interface {
	Create(ctx context.Context, name string) (*models.Tag, error)
	Get(ctx context.Context, id string) (*models.Tag, error)
	List(ctx context.Context, page models.Page) ([]*models.Tag, error)
	Update(ctx context.Context, id string, patch models.TagPatch) (*models.Tag, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, page models.Page) ([]*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type BlogPostService interface {
	Create(ctx context.Context, caller *models.User, in services.BlogPostInput) (*models.BlogPost, error)
	Get(ctx context.Context, id string) (*models.BlogPost, error)
	List(ctx context.Context, filter models.BlogPostFilter, page models.Page) ([]*models.BlogPost, error)
	Update(ctx context.Context, caller *models.User, id string, patch models.BlogPostPatch) (*models.BlogPost, error)
	Delete(ctx context.Context, caller *models.User, id string) error
}

type ImageService interface {
	Upload(ctx context.Context, up services.Upload) (*models.Image, error)
	Get(ctx context.Context, id string) (*models.Image, error)
	List(ctx context.Context, page models.Page) ([]*models.Image, error)
	Delete(ctx context.Context, id string) error
}

// Authenticator resolves the Authorization header to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.User, error)
}

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles the handlers' collaborators.
type Services struct {
	Todos      TodoService
	Items      ItemService
	Categories CategoryService
	Tags       TagService
	Users      UserService
	BlogPosts  BlogPostService
	Images     ImageService
}
