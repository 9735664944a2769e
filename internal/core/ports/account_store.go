package ports

import (
	"context"

	"github.com/authfacil/auth-system/internal/core/domain"
)

// AccountStore is the relational source of truth for accounts. Uniqueness of
// username is enforced by the store itself over active rows only; callers may
// pre-check as an optimization, but the store's constraint is the final
// authority under concurrent writers.
type AccountStore interface {
	// Create inserts a new account and returns it with the assigned id.
	// Fails with domain.ErrDuplicateUsername when an active account already
	// holds the username.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	FindActiveByID(ctx context.Context, id int64) (*domain.Account, error)
	FindActiveByUsername(ctx context.Context, username string) (*domain.Account, error)

	// FindActiveByUsernameOrEmail matches the identifier against either
	// column, active accounts only.
	FindActiveByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Account, error)

	// UpdateUsername fails with domain.ErrDuplicateUsername when another
	// active account (self excluded) already holds the new username.
	UpdateUsername(ctx context.Context, id int64, username string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePasswordHash(ctx context.Context, id int64, digest string) error

	// Deactivate soft-deletes the account (active = false). Idempotent.
	Deactivate(ctx context.Context, id int64) error
}
