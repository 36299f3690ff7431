package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/core/domain"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := newStubAuth()
	stub.loginFn = func(_ context.Context, creds domain.Credentials) (string, *domain.Session, error) {
		if creds.EmployeeID != "E100" || creds.Password != "pw" {
			t.Fatalf("unexpected credentials: %+v", creds)
		}
		return "token-1", authedSession(), nil
	}
	e := newEcho(t)
	h := NewAuthHandler(stub, 0)
	e.POST("/login", h.Login)

	rec := do(e, http.MethodPost, "/login", url.Values{"employeeId": {"E100"}, "password": {"pw"}}, true)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/home" {
		t.Fatalf("expected redirect to /home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName && c.Value == "token-1" && c.HttpOnly {
			found = true
			if c.MaxAge != 0 {
				t.Fatalf("zero ttl must give a browser-session cookie, got MaxAge %d", c.MaxAge)
			}
		}
	}
	if !found {
		t.Fatalf("session cookie not set")
	}
}

func TestAuthHandler_Login_ShowsServiceMessage(t *testing.T) {
	stub := newStubAuth()
	stub.loginFn = func(context.Context, domain.Credentials) (string, *domain.Session, error) {
		return "", nil, domain.WithMessage(domain.ErrInvalidCredentials, "Invalid employee ID or password")
	}
	e := newEcho(t)
	e.POST("/login", NewAuthHandler(stub, 0).Login)

	rec := do(e, http.MethodPost, "/login", url.Values{"employeeId": {"E100"}, "password": {"bad"}}, true)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid employee ID or password") {
		t.Fatalf("message not rendered: %s", body)
	}
	if !strings.Contains(body, `value="E100"`) {
		t.Fatalf("employee id must be kept in the form")
	}
}

func TestAuthHandler_Login_UnexpectedErrorIsNotRendered(t *testing.T) {
	stub := newStubAuth()
	stub.loginFn = func(context.Context, domain.Credentials) (string, *domain.Session, error) {
		return "", nil, errors.New("redis: connection refused")
	}
	e := newEcho(t)
	e.POST("/login", NewAuthHandler(stub, 0).Login)

	rec := do(e, http.MethodPost, "/login", url.Values{"employeeId": {"E100"}, "password": {"pw"}}, true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "redis") {
		t.Fatalf("internal error leaked")
	}
}

func TestAuthHandler_LoginPage_SessionNotice(t *testing.T) {
	stub := newStubAuth()
	e := newEcho(t)
	e.GET("/login", NewAuthHandler(stub, 0).LoginPage, middleware.OptionalAuth(stub))

	rec := do(e, http.MethodGet, "/login?reason=session", nil, true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), msgSessionExpired) {
		t.Fatalf("expected session notice, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/login", nil, true)
	if strings.Contains(rec.Body.String(), msgSessionExpired) {
		t.Fatalf("notice only after a redirect")
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	stub := newStubAuth()
	stub.signupFn = func(_ context.Context, reg domain.Registration) (string, error) {
		if reg.PasswordConfirmation != reg.Password {
			return "", domain.WithMessage(domain.ErrPasswordMismatch, "Passwords do not match")
		}
		return "Signup successful!", nil
	}
	e := newEcho(t)
	e.POST("/signup", NewAuthHandler(stub, 0).Signup)

	form := url.Values{"firstName": {"Ann"}, "employeeId": {"E7"}, "password": {"a"}, "passwordConfirmation": {"b"}}
	rec := do(e, http.MethodPost, "/signup", form, true)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Passwords do not match") {
		t.Fatalf("expected mismatch error, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="Ann"`) {
		t.Fatalf("form must be kept on failure")
	}

	form.Set("passwordConfirmation", "a")
	rec = do(e, http.MethodPost, "/signup", form, true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Signup successful!") {
		t.Fatalf("expected success, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `value="Ann"`) {
		t.Fatalf("form must be cleared on success")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	stub := newStubAuth()
	var closed string
	stub.logoutFn = func(_ context.Context, sessionID string) error {
		closed = sessionID
		return nil
	}
	e := newEcho(t)
	e.POST("/logout", NewAuthHandler(stub, 0).Logout, middleware.OptionalAuth(stub))

	rec := do(e, http.MethodPost, "/logout", nil, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d", rec.Code)
	}
	if closed != "sid-1" {
		t.Fatalf("session not closed, got %q", closed)
	}

	rec = do(e, http.MethodPost, "/logout", nil, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout without a session still redirects, got %d", rec.Code)
	}
}
