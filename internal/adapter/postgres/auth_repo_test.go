package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"inventory/internal/domain"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &DB{sql: db}, mock
}

var userCols = []string{"id", "username", "password_hash", "role"}

func TestGetByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, username, password_hash, role FROM users WHERE username = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	u, err := db.GetByUsername(context.Background(), "missing")
	if err != nil || u != nil {
		t.Fatalf("expected nil, nil; got %v, %v", u, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestGetByID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, username, password_hash, role FROM users WHERE id = \\$1").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "alice", "hash", "admin"))

	u, err := db.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if u.Username != "alice" || u.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "alice", "hash", "user").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "alice", "hash", "user"))

	u, err := db.Create(context.Background(), domain.User{ID: "u1", Username: "alice", PasswordHash: "hash", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("expected u1, got %s", u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := db.Create(context.Background(), domain.User{ID: "u2", Username: "alice", PasswordHash: "hash", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestPromoteToAdminSkipsOtherRoles(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("UPDATE users SET role = \\$2 WHERE id = \\$1 AND role = \\$3").
		WithArgs("o1", "admin", "user").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery("SELECT id, username, password_hash, role FROM users WHERE id = \\$1").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("o1", "root", "hash", "owner"))

	u, err := db.PromoteToAdmin(context.Background(), "o1")
	if err != nil {
		t.Fatalf("PromoteToAdmin() error: %v", err)
	}
	if u.Role != domain.RoleOwner {
		t.Fatalf("expected owner to stay owner, got %s", u.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestDeleteNonOwner(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM users WHERE id = \\$1 AND role <> \\$2").
		WithArgs("u1", "owner").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := db.DeleteNonOwner(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteNonOwner() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestListUsers(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, username, password_hash, role FROM users ORDER BY username").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("a", "alice", "h", "user").
			AddRow("r", "root", "h", "owner"))

	users, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(users) != 2 || users[1].Role != domain.RoleOwner {
		t.Fatalf("unexpected users %+v", users)
	}
}
