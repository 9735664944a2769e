package handler

import "time"

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin standard"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type recoverRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type editFieldRequest struct {
	Value string `json:"value"`
}

type deleteAccountRequest struct {
	Confirm bool `json:"confirm"`
}

// --- Response types ---

type accountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token   string           `json:"token,omitempty"`
	Account *accountResponse `json:"account,omitempty"`
}

type recoverResponse struct {
	// TemporaryPassword is disclosed exactly once; delivery to the account
	// owner is an external concern.
	TemporaryPassword string `json:"temporary_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type auditEntryResponse struct {
	UserID    *int64    `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	SourceIP  string    `json:"source_ip"`
}
