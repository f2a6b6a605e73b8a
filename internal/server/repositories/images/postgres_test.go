package images

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

var columns = []string{"id", "url", "alt_text", "filename", "storage_key", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	alt := "cat"
	q := `(?s)^\s*INSERT\s+INTO\s+images\s*\(id,\s*url,\s*alt_text,\s*filename,\s*storage_key,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`

	mock.ExpectExec(q).
		WithArgs("i1", "/static/images/k.png", "cat", "k.png", "k.png", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Image{
		ID:         "i1",
		URL:        "/static/images/k.png",
		AltText:    &alt,
		Filename:   "k.png",
		StorageKey: "k.png",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+images`).WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.Image{ID: "i1"})
	if err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM images WHERE id = \$1$`).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("i1", "/u", nil, "k.png", "k.png", now, now))
	mock.ExpectQuery(`FROM images WHERE id = \$1$`).
		WithArgs("i2").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "i1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StorageKey != "k.png" || got.AltText != nil {
		t.Fatalf("unexpected image: %+v", got)
	}

	if _, err := repo.GetByID(context.Background(), "i2"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM images ORDER BY created_at, id LIMIT \$1 OFFSET \$2$`).
		WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("i1", "/a", nil, "a.png", "a.png", now, now).
			AddRow("i2", "/b", "alt", "b.png", "b.png", now, now))

	got, err := repo.List(context.Background(), models.Page{Skip: 4, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].AltText == nil || *got[1].AltText != "alt" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestDelete_ReturnsStorageKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^DELETE FROM images WHERE id = \$1 RETURNING storage_key$`
	mock.ExpectQuery(q).WithArgs("i1").WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("k.png"))
	mock.ExpectQuery(q).WithArgs("i1").WillReturnError(sql.ErrNoRows)

	key, err := repo.Delete(context.Background(), "i1")
	if err != nil || key != "k.png" {
		t.Fatalf("got %q, %v", key, err)
	}
	if _, err := repo.Delete(context.Background(), "i1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

