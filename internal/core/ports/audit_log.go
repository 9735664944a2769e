package ports

import (
	"context"

	"github.com/authfacil/auth-system/internal/core/domain"
)

// AuditLog is the append-only trail of lifecycle events. Appends are advisory
// with respect to the primary store: a failed append never blocks or reverses
// the mutation it describes.
type AuditLog interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
