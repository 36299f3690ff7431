package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

const (
	// CookieName holds the signed session token.
	CookieName = "pathlabel_session"

	// LoginPath is where requests without a session are sent.
	LoginPath = "/login"
	// ExpiredQuery marks a redirect caused by a missing session.
	ExpiredQuery = "?reason=session"

	sessionKey = "session"
)

// SessionResolver turns a cookie token into an authenticated session.
type SessionResolver interface {
	ParseToken(token string) (string, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
}

var _ SessionResolver = (ports.AuthService)(nil)

// Auth requires an authenticated session. Without one the request never
// reaches the handler: browsers are redirected to the login screen, JSON
// clients get a 401.
func Auth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := resolve(c, resolver)
			switch {
			case errors.Is(err, domain.ErrNoSession):
				metrics.SessionsTotal.WithLabelValues("missing").Inc()
				ClearSessionCookie(c)
				if WantsJSON(c) {
					return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
				}
				return c.Redirect(http.StatusSeeOther, LoginPath+ExpiredQuery)
			case err != nil:
				return err
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// OptionalAuth attaches the session when there is one and never blocks.
func OptionalAuth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess, err := resolve(c, resolver); err == nil {
				c.Set(sessionKey, sess)
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session attached by Auth or OptionalAuth.
func CurrentSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}

// SetSessionCookie stores token in an HTTP-only cookie. A zero ttl makes it
// a browser-session cookie.
func SetSessionCookie(c echo.Context, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func resolve(c echo.Context, resolver SessionResolver) (*domain.Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, domain.ErrNoSession
	}
	sid, err := resolver.ParseToken(cookie.Value)
	if err != nil {
		return nil, domain.ErrNoSession
	}
	return resolver.Session(c.Request().Context(), sid)
}

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
