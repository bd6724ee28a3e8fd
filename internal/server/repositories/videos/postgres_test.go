package videos

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var allVideoColumns = []string{"id", "owner_id", "title", "description", "video_key",
	"thumbnail_key", "duration", "views", "is_published", "created_at", "updated_at"}

func videoRow(id, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(allVideoColumns).
		AddRow(id, "u-1", title, "", "videos/k", "thumbnails/k", 12.5, int64(3), true, now, now)
}

func TestCreate_GeneratesID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"views", "created_at", "updated_at"}).
		AddRow(int64(0), time.Now(), time.Now())
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+videos\s*\(id,\s*owner_id,\s*title,`).
		WithArgs(sqlmock.AnyArg(), "u-1", "clip", "", "videos/k", "thumbnails/k", 12.5, true).
		WillReturnRows(rows)

	v := &models.Video{OwnerID: "u-1", Title: "clip", VideoKey: "videos/k",
		ThumbnailKey: "thumbnails/k", Duration: 12.5, IsPublished: true}
	got, err := repo.Create(context.Background(), v)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected a generated id")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+videos\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestList_AllFiltersApplied(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+videos\s+WHERE\s+1=1\s+AND\s+owner_id\s*=\s*\$1\s+AND\s+title\s+ILIKE\s+\$2\s+AND\s+is_published\s+ORDER\s+BY\s+views\s+ASC\s+LIMIT\s+\$3\s+OFFSET\s+\$4$`
	mock.ExpectQuery(q).
		WithArgs("u-1", "%cat%", 10, 20).
		WillReturnRows(videoRow("v-1", "cat video"))

	list, err := repo.List(context.Background(), ListFilter{
		OwnerID:       "u-1",
		Query:         "cat",
		SortBy:        "views",
		SortAscending: true,
		PublishedOnly: true,
		Limit:         10,
		Offset:        20,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "cat video" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestList_UnknownSortFallsBack(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2$`
	mock.ExpectQuery(q).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(allVideoColumns))

	// an injection attempt must never reach SQL text
	_, err := repo.List(context.Background(), ListFilter{SortBy: "views; DROP TABLE videos", Limit: 10})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIncrementViews(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+videos\s+SET\s+views\s*=\s*views\s*\+\s*1\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncrementViews(context.Background(), "v-1"); err != nil {
		t.Fatalf("IncrementViews error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+videos\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "v-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
