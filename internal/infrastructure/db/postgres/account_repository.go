package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/authfacil/auth-system/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

const accountColumns = `id, username, email, password_hash, role, active, created_at, updated_at`

// AccountRepository implements ports.AccountStore over PostgreSQL. All access
// is through parameterized queries; the partial unique index on
// accounts(username) WHERE active is the final authority for uniqueness under
// concurrent writers.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account row and returns the account with its assigned
// id and timestamps.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO accounts (username, email, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	created := *account
	err := r.db.QueryRowContext(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Active,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &created, nil
}

func (r *AccountRepository) FindActiveByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND active`
	return r.findOne(ctx, query, id)
}

func (r *AccountRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 AND active`
	return r.findOne(ctx, query, username)
}

// FindActiveByUsernameOrEmail matches the identifier against either column.
func (r *AccountRepository) FindActiveByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE (username = $1 OR email = $1) AND active`
	return r.findOne(ctx, query, identifier)
}

// UpdateUsername relies on the partial unique index to reject a username held
// by another active account; self-updates to the same value pass through.
func (r *AccountRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	err := r.exec(ctx, `UPDATE accounts SET username = $1, updated_at = now() WHERE id = $2 AND active`, username, id)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateUsername
	}
	return err
}

func (r *AccountRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.exec(ctx, `UPDATE accounts SET email = $1, updated_at = now() WHERE id = $2 AND active`, email, id)
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id int64, digest string) error {
	return r.exec(ctx, `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2 AND active`, digest, id)
}

// Deactivate soft-deletes the account. Repeating the call on an already
// inactive row is not an error.
func (r *AccountRepository) Deactivate(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
