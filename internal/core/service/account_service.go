package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/authfacil/auth-system/internal/api/metrics"
	"github.com/authfacil/auth-system/internal/core/domain"
	"github.com/authfacil/auth-system/internal/core/ports"
)

// Placeholder until callers report a real address.
const auditSourceIP = "127.0.0.1"

const defaultAuditLimit = 5

// LoginThrottle abstracts the failed-login limiter (Redis). A nil throttle
// disables limiting entirely.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AccountService implements ports.AccountService. The primary store commit
// always comes first; mirror and audit writes follow best-effort and their
// failures never reach the caller.
type AccountService struct {
	store     ports.AccountStore
	mirror    ports.ProfileMirror
	audit     ports.AuditLog
	hasher    ports.CredentialHasher
	throttle  LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAccountService(
	store ports.AccountStore,
	mirror ports.ProfileMirror,
	audit ports.AuditLog,
	hasher ports.CredentialHasher,
	throttle LoginThrottle,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		store:     store,
		mirror:    mirror,
		audit:     audit,
		hasher:    hasher,
		throttle:  throttle,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an account in the primary store, then reflects it into the
// mirror and records the audit entry. Nothing is mirrored or logged when the
// primary insert fails.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	role := in.Role
	if role == "" {
		role = domain.RoleStandard
	}
	if username == "" || in.Password == "" || !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		return nil, err
	}

	s.reflectProfile(ctx, created)
	s.record(ctx, created, domain.ActionRegistered)

	s.log.Info().Int64("account_id", created.ID).Str("username", created.Username).Msg("account registered")
	return created, nil
}

// Login verifies credentials against the primary store. A failed attempt is
// audited with a null actor; a store outage aborts without any audit attempt.
func (s *AccountService) Login(ctx context.Context, sess *domain.Session, username, password string) (string, *domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if blocked := s.throttled(ctx, username); blocked {
		return "", nil, domain.ErrTooManyAttempts
	}

	account, err := s.store.FindActiveByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, err
	}
	if account == nil || err != nil || !s.hasher.Verify(password, account.PasswordHash) {
		s.record(ctx, nil, domain.ActionLoginFailed)
		s.noteFailure(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
		}
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	sess.Begin(account)
	s.record(ctx, account, domain.ActionLoginSucceeded)

	s.log.Info().Int64("account_id", account.ID).Str("username", account.Username).Msg("login succeeded")
	return token, account, nil
}

// Logout records the action and returns the session to the anonymous state.
func (s *AccountService) Logout(ctx context.Context, sess *domain.Session) error {
	account, err := s.authenticated(sess)
	if err != nil {
		return err
	}
	s.record(ctx, account, domain.ActionLogout)
	sess.Clear()
	return nil
}

// Resume rebuilds a session snapshot from an account id, e.g. from a bearer
// token presented on a later request. Not audited.
func (s *AccountService) Resume(ctx context.Context, accountID int64) (*domain.Session, error) {
	account, err := s.store.FindActiveByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	sess := domain.NewSession()
	sess.Begin(account)
	return sess, nil
}

// EditUsername changes the username. Empty input is a no-op, not an error; a
// conflicting username is rejected by the store and not audited.
func (s *AccountService) EditUsername(ctx context.Context, sess *domain.Session, newUsername string) error {
	account, err := s.authenticated(sess)
	if err != nil {
		return err
	}
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return nil
	}

	if err := s.store.UpdateUsername(ctx, account.ID, newUsername); err != nil {
		return err
	}

	updated := *account
	updated.Username = newUsername
	sess.Begin(&updated)

	s.reflectProfile(ctx, &updated)
	s.record(ctx, &updated, domain.ActionUsernameEdited)
	return nil
}

// EditEmail changes the email. Empty input is a no-op, not an error.
func (s *AccountService) EditEmail(ctx context.Context, sess *domain.Session, newEmail string) error {
	account, err := s.authenticated(sess)
	if err != nil {
		return err
	}
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" {
		return nil
	}

	if err := s.store.UpdateEmail(ctx, account.ID, newEmail); err != nil {
		return err
	}

	updated := *account
	updated.Email = newEmail
	sess.Begin(&updated)

	s.reflectProfile(ctx, &updated)
	s.record(ctx, &updated, domain.ActionEmailEdited)
	return nil
}

// EditPassword rehashes and stores a new credential. Nothing is mirrored:
// password material never leaves the primary store.
func (s *AccountService) EditPassword(ctx context.Context, sess *domain.Session, newPassword string) error {
	account, err := s.authenticated(sess)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return nil
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, account.ID, digest); err != nil {
		return err
	}

	updated := *account
	updated.PasswordHash = digest
	sess.Begin(&updated)

	s.record(ctx, &updated, domain.ActionPasswordEdited)
	return nil
}

// DeleteAccount soft-deletes the authenticated account after explicit
// confirmation. The unconfirmed path changes nothing and logs nothing.
func (s *AccountService) DeleteAccount(ctx context.Context, sess *domain.Session, confirmed bool) error {
	account, err := s.authenticated(sess)
	if err != nil {
		return err
	}
	if !confirmed {
		return domain.ErrDeleteNotConfirmed
	}

	if err := s.store.Deactivate(ctx, account.ID); err != nil {
		return err
	}

	if err := s.mirror.Remove(ctx, account.ID); err != nil {
		metrics.MirrorFailuresTotal.WithLabelValues("remove").Inc()
		s.log.Warn().Err(err).Int64("account_id", account.ID).Msg("failed to remove mirror profile")
	}

	s.record(ctx, account, domain.ActionAccountDeleted)
	sess.Clear()

	s.log.Info().Int64("account_id", account.ID).Msg("account deactivated")
	return nil
}

// RecoverPassword issues a temporary credential for the account matching
// identifier. The plaintext is returned to the caller exactly once and never
// persisted; a miss is reported generically and not audited.
func (s *AccountService) RecoverPassword(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", domain.ErrInvalidInput
	}

	account, err := s.store.FindActiveByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return "", err
	}

	temp, err := generateTemporaryPassword()
	if err != nil {
		return "", err
	}
	digest, err := s.hasher.Hash(temp)
	if err != nil {
		return "", err
	}
	if err := s.store.UpdatePasswordHash(ctx, account.ID, digest); err != nil {
		return "", err
	}

	if err := s.mirror.MarkPasswordReset(ctx, account.ID, time.Now().UTC()); err != nil {
		metrics.MirrorFailuresTotal.WithLabelValues("mark_password_reset").Inc()
		s.log.Warn().Err(err).Int64("account_id", account.ID).Msg("failed to mark password reset in mirror")
	}

	s.record(ctx, account, domain.ActionRecoveryGenerated)

	s.log.Info().Int64("account_id", account.ID).Msg("recovery credential generated")
	return temp, nil
}

// RecentAuditEntries returns the newest audit entries, admin role only.
func (s *AccountService) RecentAuditEntries(ctx context.Context, sess *domain.Session, limit int) ([]domain.AuditEntry, error) {
	account, err := s.authenticated(sess)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	entries, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit entries: %w", err)
	}
	return entries, nil
}

func (s *AccountService) authenticated(sess *domain.Session) (*domain.Account, error) {
	if sess == nil || !sess.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return sess.Account(), nil
}

// reflectProfile pushes the non-secret account fields into the mirror.
// Failure is a consistency warning, never the operation's result.
func (s *AccountService) reflectProfile(ctx context.Context, account *domain.Account) {
	profile := &domain.Profile{
		PrimaryID:    account.ID,
		Username:     account.Username,
		Email:        account.Email,
		Role:         account.Role,
		RegisteredAt: account.CreatedAt,
	}
	if err := s.mirror.Upsert(ctx, profile); err != nil {
		metrics.MirrorFailuresTotal.WithLabelValues("upsert").Inc()
		s.log.Warn().Err(err).Int64("account_id", account.ID).Msg("failed to upsert mirror profile")
	}
}

// record appends one audit entry for a completed (or attempted) intent.
// account nil means no authenticated actor.
func (s *AccountService) record(ctx context.Context, account *domain.Account, action domain.AuditAction) {
	entry := &domain.AuditEntry{
		Username:  "unknown",
		Action:    action,
		Timestamp: time.Now().UTC(),
		SourceIP:  auditSourceIP,
	}
	if account != nil {
		id := account.ID
		entry.UserID = &id
		entry.Username = account.Username
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		metrics.AuditFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("action", string(action)).Msg("failed to append audit entry")
	}
}

// throttled consults the limiter; a limiter outage fails open with a warning.
func (s *AccountService) throttled(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.Blocked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *AccountService) noteFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AccountService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", account.ID),
		"username": account.Username,
		"role":     account.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
