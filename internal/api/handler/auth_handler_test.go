package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/authfacil/auth-system/internal/core/domain"
	"github.com/authfacil/auth-system/internal/core/ports"
)

// stubAccountService implements ports.AccountService with overridable
// function fields. Unset methods fail the calling test.
type stubAccountService struct {
	t *testing.T

	register     func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	login        func(ctx context.Context, sess *domain.Session, username, password string) (string, *domain.Account, error)
	logout       func(ctx context.Context, sess *domain.Session) error
	resume       func(ctx context.Context, accountID int64) (*domain.Session, error)
	editUsername func(ctx context.Context, sess *domain.Session, v string) error
	editEmail    func(ctx context.Context, sess *domain.Session, v string) error
	editPassword func(ctx context.Context, sess *domain.Session, v string) error
	delete       func(ctx context.Context, sess *domain.Session, confirmed bool) error
	recover      func(ctx context.Context, identifier string) (string, error)
	recentAudit  func(ctx context.Context, sess *domain.Session, limit int) ([]domain.AuditEntry, error)
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if s.register == nil {
		s.t.Fatalf("unexpected Register call")
	}
	return s.register(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, sess *domain.Session, username, password string) (string, *domain.Account, error) {
	if s.login == nil {
		s.t.Fatalf("unexpected Login call")
	}
	return s.login(ctx, sess, username, password)
}

func (s *stubAccountService) Logout(ctx context.Context, sess *domain.Session) error {
	if s.logout == nil {
		s.t.Fatalf("unexpected Logout call")
	}
	return s.logout(ctx, sess)
}

func (s *stubAccountService) Resume(ctx context.Context, accountID int64) (*domain.Session, error) {
	if s.resume == nil {
		s.t.Fatalf("unexpected Resume call")
	}
	return s.resume(ctx, accountID)
}

func (s *stubAccountService) EditUsername(ctx context.Context, sess *domain.Session, v string) error {
	if s.editUsername == nil {
		s.t.Fatalf("unexpected EditUsername call")
	}
	return s.editUsername(ctx, sess, v)
}

func (s *stubAccountService) EditEmail(ctx context.Context, sess *domain.Session, v string) error {
	if s.editEmail == nil {
		s.t.Fatalf("unexpected EditEmail call")
	}
	return s.editEmail(ctx, sess, v)
}

func (s *stubAccountService) EditPassword(ctx context.Context, sess *domain.Session, v string) error {
	if s.editPassword == nil {
		s.t.Fatalf("unexpected EditPassword call")
	}
	return s.editPassword(ctx, sess, v)
}

func (s *stubAccountService) DeleteAccount(ctx context.Context, sess *domain.Session, confirmed bool) error {
	if s.delete == nil {
		s.t.Fatalf("unexpected DeleteAccount call")
	}
	return s.delete(ctx, sess, confirmed)
}

func (s *stubAccountService) RecoverPassword(ctx context.Context, identifier string) (string, error) {
	if s.recover == nil {
		s.t.Fatalf("unexpected RecoverPassword call")
	}
	return s.recover(ctx, identifier)
}

func (s *stubAccountService) RecentAuditEntries(ctx context.Context, sess *domain.Session, limit int) ([]domain.AuditEntry, error) {
	if s.recentAudit == nil {
		s.t.Fatalf("unexpected RecentAuditEntries call")
	}
	return s.recentAudit(ctx, sess, limit)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testAccount() *domain.Account {
	return &domain.Account{ID: 1, Username: "alice", Email: "a@x.com", Role: domain.RoleStandard, Active: true}
}

func authenticatedSession() *domain.Session {
	sess := domain.NewSession()
	sess.Begin(testAccount())
	return sess
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAccountService{t: t, register: func(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
		if in.Username != "alice" || in.Password != "Secret1!" {
			t.Fatalf("unexpected input: %+v", in)
		}
		return testAccount(), nil
	}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"Secret1!"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Account == nil || resp.Account.Username != "alice" || resp.Token != "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{t: t})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"username":"al","password":"x"}`)
	err := h.Register(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	svc := &stubAccountService{t: t, register: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
		return nil, domain.ErrDuplicateUsername
	}}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"Secret1!"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername to propagate, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAccountService{t: t, login: func(_ context.Context, sess *domain.Session, username, password string) (string, *domain.Account, error) {
		account := testAccount()
		sess.Begin(account)
		return "signed-token", account, nil
	}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"Secret1!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "signed-token" || resp.Account == nil || resp.Account.ID != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAccountService{t: t, login: func(context.Context, *domain.Session, string, string) (string, *domain.Account, error) {
		return "", nil, domain.ErrInvalidCredentials
	}}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Recover(t *testing.T) {
	svc := &stubAccountService{t: t, recover: func(_ context.Context, identifier string) (string, error) {
		if identifier != "a@x.com" {
			t.Fatalf("unexpected identifier %q", identifier)
		}
		return "tempPass99", nil
	}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/auth/recover", `{"identifier":"a@x.com"}`)
	if err := h.Recover(c); err != nil {
		t.Fatalf("recover failed: %v", err)
	}

	var resp recoverResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TemporaryPassword != "tempPass99" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Recover_NotFound(t *testing.T) {
	svc := &stubAccountService{t: t, recover: func(context.Context, string) (string, error) {
		return "", domain.ErrAccountNotFound
	}}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/auth/recover", `{"identifier":"ghost"}`)
	if err := h.Recover(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound to propagate, got %v", err)
	}
}
