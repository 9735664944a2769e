package domain

import "time"

// AuditAction identifies a lifecycle event recorded in the audit trail.
type AuditAction string

const (
	ActionRegistered        AuditAction = "registered"
	ActionLoginSucceeded    AuditAction = "login_succeeded"
	ActionLoginFailed       AuditAction = "login_failed"
	ActionLogout            AuditAction = "logout"
	ActionUsernameEdited    AuditAction = "username_edited"
	ActionEmailEdited       AuditAction = "email_edited"
	ActionPasswordEdited    AuditAction = "password_edited"
	ActionAccountDeleted    AuditAction = "account_deleted"
	ActionRecoveryGenerated AuditAction = "recovery_generated"
)

// AuditEntry is one append-only record of a security-relevant action.
// UserID is nil when the action had no authenticated actor (failed login).
// Entries are immutable once written.
type AuditEntry struct {
	UserID    *int64      `bson:"user_id" json:"user_id"`
	Username  string      `bson:"username" json:"username"`
	Action    AuditAction `bson:"action" json:"action"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	SourceIP  string      `bson:"source_ip" json:"source_ip"`
}
