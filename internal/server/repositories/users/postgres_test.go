package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
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

var allUserColumns = []string{"id", "username", "email", "full_name", "avatar", "cover_image",
	"password_hash", "refresh_token", "created_at", "updated_at"}

func userRow(refresh *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(allUserColumns).
		AddRow("u-1", "alice", "alice@example.com", "Alice Doe", "avatars/a", "", "hash", refresh, now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*full_name,\s*avatar,\s*cover_image,\s*password_hash\)`

	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now())
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "Alice Doe", "avatars/a", "", "hash").
		WillReturnRows(rows)

	u := &models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Doe",
		Avatar: "avatars/a", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected a generated id")
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Username: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnRows(userRow(nil))

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Username != "alice" || got.RefreshToken != nil {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByUsernameOrEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	token := "stored"
	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+users\s+WHERE\s+\(username\s*=\s*\$1\s+AND\s+\$1\s*<>\s*''\)\s+OR\s+\(email\s*=\s*\$2\s+AND\s+\$2\s*<>\s*''\)\s+LIMIT\s+1`).
		WithArgs("alice", "").
		WillReturnRows(userRow(&token))

	got, err := repo.GetByUsernameOrEmail(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail error: %v", err)
	}
	if got.RefreshToken == nil || *got.RefreshToken != "stored" {
		t.Fatalf("refresh token not scanned: %+v", got)
	}
}

func TestUpdateRefreshToken_SetAndClear(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1`

	token := "new-token"
	mock.ExpectExec(q).WithArgs("u-1", &token).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdateRefreshToken(context.Background(), "u-1", &token); err != nil {
		t.Fatalf("UpdateRefreshToken error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("u-1", nil).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdateRefreshToken(context.Background(), "u-1", nil); err != nil {
		t.Fatalf("UpdateRefreshToken clear error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateRefreshToken_MissingUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	token := "new-token"
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+refresh_token`).
		WithArgs("ghost", &token).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRefreshToken(context.Background(), "ghost", &token)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound when no row matches, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2`).
		WithArgs("u-1", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), "u-1", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)UPDATE\s+users\s+SET\s+full_name\s*=\s*\$2,\s*email\s*=\s*\$3.*RETURNING`).
		WithArgs("u-1", "Alice Doe", "alice@example.com").
		WillReturnRows(userRow(nil))

	got, err := repo.UpdateAccount(context.Background(), "u-1", "Alice Doe", "alice@example.com")
	if err != nil {
		t.Fatalf("UpdateAccount error: %v", err)
	}
	if got.FullName != "Alice Doe" {
		t.Fatalf("unexpected user: %+v", got)
	}
}
