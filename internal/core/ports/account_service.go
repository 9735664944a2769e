package ports

import (
	"context"

	"github.com/authfacil/auth-system/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AccountService orchestrates the account lifecycle across the primary store,
// the profile mirror and the audit log. Every method that authenticates or
// mutates takes the caller's own Session handle; the service holds no
// cross-call state and is safe for concurrent callers.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)

	// Login verifies credentials, establishes the session and returns a
	// signed token alongside the account snapshot.
	Login(ctx context.Context, sess *domain.Session, username, password string) (string, *domain.Account, error)

	Logout(ctx context.Context, sess *domain.Session) error

	// Resume rebuilds a session from a previously issued account id, e.g.
	// when a bearer token is presented. Not an audited action.
	Resume(ctx context.Context, accountID int64) (*domain.Session, error)

	EditUsername(ctx context.Context, sess *domain.Session, newUsername string) error
	EditEmail(ctx context.Context, sess *domain.Session, newEmail string) error
	EditPassword(ctx context.Context, sess *domain.Session, newPassword string) error

	// DeleteAccount soft-deletes the authenticated account. The confirmed
	// flag is the caller's explicit decision; without it nothing changes.
	DeleteAccount(ctx context.Context, sess *domain.Session, confirmed bool) error

	// RecoverPassword issues a temporary credential for the account matching
	// identifier (username or email) and returns the plaintext exactly once.
	RecoverPassword(ctx context.Context, identifier string) (string, error)

	// RecentAuditEntries returns the newest audit entries. Admin role only.
	RecentAuditEntries(ctx context.Context, sess *domain.Session, limit int) ([]domain.AuditEntry, error)
}
