package ports

import (
	"context"
	"time"

	"github.com/authfacil/auth-system/internal/core/domain"
)

// ProfileMirror is the best-effort document copy of account data. Failures
// here are consistency warnings, never reasons to fail the primary operation;
// the service layer owns that policy.
type ProfileMirror interface {
	// Upsert inserts or updates the document keyed by profile.PrimaryID.
	// RegisteredAt is only written on first insert.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// Remove deletes the document for the given primary id.
	Remove(ctx context.Context, primaryID int64) error

	// MarkPasswordReset records when a recovery credential was issued.
	MarkPasswordReset(ctx context.Context, primaryID int64, when time.Time) error
}
