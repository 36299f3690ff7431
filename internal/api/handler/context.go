package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/core/domain"
)

// ctxSession returns the session attached by the Auth middleware. Protected
// routes never reach a handler without one; the check is a fast fail for
// routes wired without the middleware.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.CurrentSession(c)
	if !sess.Authenticated() {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}
