package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogposts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/categories"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/tags"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Todos(db dbx.DBTX) todos.Repository
	Items(db dbx.DBTX) items.Repository
	Categories(db dbx.DBTX) categories.Repository
	Tags(db dbx.DBTX) tags.Repository
	Images(db dbx.DBTX) images.Repository
	BlogPosts(db dbx.DBTX) blogposts.Repository
}
