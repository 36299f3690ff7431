package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/core/domain"
)

type stubResolver struct {
	sessions map[string]*domain.Session
	getErr   error
	lookups  int
}

func (r *stubResolver) ParseToken(token string) (string, error) {
	if token == "bad" {
		return "", domain.ErrNoSession
	}
	return token, nil
}

func (r *stubResolver) Session(_ context.Context, sid string) (*domain.Session, error) {
	r.lookups++
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.sessions[sid]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return s, nil
}

func newResolver() *stubResolver {
	return &stubResolver{sessions: map[string]*domain.Session{
		"sid-1": {ID: "sid-1", UserID: "u-1", EmployeeID: "E1", State: domain.SessionAuthenticated},
	}}
}

func runAuth(t *testing.T, r SessionResolver, cookie string, accept string) (*httptest.ResponseRecorder, bool, *domain.Session) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen *domain.Session
	handler := Auth(r)(func(c echo.Context) error {
		called = true
		seen = CurrentSession(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, seen
}

func TestAuthMiddleware_ValidSession(t *testing.T) {
	rec, called, sess := runAuth(t, newResolver(), "sid-1", "")
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sess == nil || sess.UserID != "u-1" {
		t.Fatalf("session not attached: %+v", sess)
	}
}

func TestAuthMiddleware_MissingCookieRedirects(t *testing.T) {
	r := newResolver()
	rec, called, _ := runAuth(t, r, "", "")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?reason=session" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if r.lookups != 0 {
		t.Fatalf("no session lookup without a cookie")
	}
}

func TestAuthMiddleware_BadTokenRedirects(t *testing.T) {
	rec, called, _ := runAuth(t, newResolver(), "bad", "")
	if called || rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_LoggedOutSessionRedirects(t *testing.T) {
	rec, called, _ := runAuth(t, newResolver(), "sid-gone", "")
	if called || rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d (called=%v)", rec.Code, called)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("stale cookie must be expired")
	}
}

func TestAuthMiddleware_JSONClientsGet401(t *testing.T) {
	rec, called, _ := runAuth(t, newResolver(), "", echo.MIMEApplicationJSON)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_StoreFailureIsNotARedirect(t *testing.T) {
	r := newResolver()
	r.getErr = errors.New("redis down")
	rec, called, _ := runAuth(t, r, "sid-1", "")
	if called || rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()
	for _, cookie := range []string{"", "sid-1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
		}
		c := e.NewContext(req, httptest.NewRecorder())

		called := false
		h := OptionalAuth(newResolver())(func(c echo.Context) error {
			called = true
			if (CurrentSession(c) != nil) != (cookie != "") {
				t.Fatalf("cookie %q: unexpected session %+v", cookie, CurrentSession(c))
			}
			return nil
		})
		if err := h(c); err != nil || !called {
			t.Fatalf("cookie %q: next must always run (err=%v)", cookie, err)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := SecurityHeaders()(func(c echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := rec.Header()
	if h.Get("Cache-Control") != "no-store" || h.Get("X-Frame-Options") != "DENY" || h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing headers: %v", h)
	}
	if h.Get("Content-Security-Policy") != contentSecurityPolicy || h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("unexpected policy headers: %v", h)
	}
}
