package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/authfacil/auth-system/internal/core/domain"
)

func newMockRepository(t *testing.T) (*AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock setup failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAccountRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func accountRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role", "active", "created_at", "updated_at",
	}).AddRow(int64(7), "alice", "a@x.com", "$2a$10$digest", domain.RoleStandard, true, now, now)
}

func TestCreate_AssignsIdentity(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs("alice", "a@x.com", "$2a$10$digest", domain.RoleStandard, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	created, err := repo.Create(context.Background(), &domain.Account{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$digest",
		Role:         domain.RoleStandard,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("expected id 7, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_username_active_uq"})

	_, err := repo.Create(context.Background(), &domain.Account{Username: "alice", Active: true})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestFindActiveByUsername(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE username`).
		WithArgs("alice").
		WillReturnRows(accountRows(t))

	account, err := repo.FindActiveByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if account.ID != 7 || account.Username != "alice" || !account.Active {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestFindActiveByUsername_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE username`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindActiveByUsername(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestFindActiveByUsernameOrEmail(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE \(username = \$1 OR email = \$1\)`).
		WithArgs("a@x.com").
		WillReturnRows(accountRows(t))

	account, err := repo.FindActiveByUsernameOrEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if account.Email != "a@x.com" {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestUpdateUsername_Duplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE accounts SET username`).
		WithArgs("bob", int64(7)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_username_active_uq"})

	err := repo.UpdateUsername(context.Background(), 7, "bob")
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUpdateEmail_MissingAccount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE accounts SET email`).
		WithArgs("e@x.com", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEmail(context.Background(), 99, "e@x.com")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE accounts SET password_hash`).
		WithArgs("$2a$10$new", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), 7, "$2a$10$new"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeactivate_Idempotent(t *testing.T) {
	repo, mock := newMockRepository(t)

	// Second call hits an already inactive row; zero rows affected is fine.
	mock.ExpectExec(`UPDATE accounts SET active = FALSE`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET active = FALSE`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Deactivate(context.Background(), 7); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if err := repo.Deactivate(context.Background(), 7); err != nil {
		t.Fatalf("repeated deactivate must succeed: %v", err)
	}
}
