package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/api/handler"
	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/api/view"
	"github.com/aph/pathlabel/internal/core/domain"
)

// errorResponse is the error envelope for JSON clients.
type errorResponse struct {
	Error string `json:"error"`
}

type errorData struct {
	Status int
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends browsers without a session back to the login screen.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the error page, or {"error": "<message>"} for JSON clients.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		wantsJSON := middleware.WantsJSON(c)
		if errors.Is(err, domain.ErrNoSession) && !wantsJSON {
			middleware.ClearSessionCookie(c)
			_ = c.Redirect(http.StatusSeeOther, middleware.LoginPath+middleware.ExpiredQuery)
			return
		}

		code, msg := resolveError(err, log, c)
		switch {
		case c.Request().Method == http.MethodHead:
			err = c.NoContent(code)
		case wantsJSON:
			err = c.JSON(code, errorResponse{Error: msg})
		default:
			err = c.Render(code, "error", view.Page{
				Title:   msg,
				Session: middleware.CurrentSession(c),
				Data:    errorData{Status: code},
			})
		}
		if err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("write error response")
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code := handler.StatusFor(err); code != http.StatusInternalServerError {
		return code, domain.MessageOf(err, http.StatusText(code))
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
