package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/api/view"
	"github.com/aph/pathlabel/internal/core/domain"
)

// newPage starts the data for a screen with the current session, if any.
func newPage(c echo.Context, title string, data any) view.Page {
	return view.Page{
		Title:   title,
		Session: middleware.CurrentSession(c),
		Data:    data,
	}
}

// renderFailure re-renders a screen with the operator message carried by err.
// Errors without one are returned for the HTTP error handler.
func renderFailure(c echo.Context, name string, p view.Page, err error) error {
	msg := domain.MessageOf(err, "")
	if msg == "" {
		return err
	}
	p.Error = msg
	return c.Render(StatusFor(err), name, p)
}

// StatusFor maps domain errors to HTTP status codes. Errors from the
// pathology service that carry no domain meaning are a bad gateway.
func StatusFor(err error) int {
	var he *echo.HTTPError
	var rr domain.RemoteRejection
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPatientNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLoginInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidResponse), errors.As(err, &rr):
		return http.StatusBadGateway
	case domain.MessageOf(err, "") != "":
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
