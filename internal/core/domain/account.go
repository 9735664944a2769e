package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrDeleteNotConfirmed = errors.New("account deletion not confirmed")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Account is the authoritative user record held in the relational store.
// PasswordHash never leaves the primary store boundary: it is excluded from
// JSON and must never be copied into the profile mirror or the audit log.
type Account struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStandard
}

// Profile is the denormalized, password-free copy of an account kept in the
// document store. PrimaryID is a weak back-reference, not ownership: the
// mirror may lag behind the primary store and is never used for uniqueness
// or security decisions.
type Profile struct {
	PrimaryID       int64      `bson:"primary_id"`
	Username        string     `bson:"username"`
	Email           string     `bson:"email"`
	Role            string     `bson:"role"`
	RegisteredAt    time.Time  `bson:"registered_at"`
	PasswordResetAt *time.Time `bson:"password_reset_at,omitempty"`
}
