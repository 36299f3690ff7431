package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

type usersData struct {
	Search string
	Users  []domain.User
}

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List opens the user management screen. A request without a search
// parameter reloads the accounts from the pathology service.
func (h *UserHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	search := c.QueryParam("search")

	var users []domain.User
	if c.QueryParams().Has("search") {
		users, err = h.userService.List(ctx, sess.ID, search)
	} else {
		users, err = h.userService.Load(ctx, sess.ID)
	}
	if err != nil {
		return renderFailure(c, "users", newPage(c, "User Management", usersData{Search: search}), err)
	}
	return c.Render(http.StatusOK, "users", newPage(c, "User Management", usersData{Search: search, Users: users}))
}

func (h *UserHandler) Rename(c echo.Context) error {
	return h.mutate(c, func(sessionID string) (string, error) {
		return h.userService.Rename(c.Request().Context(), sessionID, c.Param("id"), c.FormValue("firstName"))
	})
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	return h.mutate(c, func(sessionID string) (string, error) {
		return h.userService.ResetPassword(c.Request().Context(), sessionID, c.Param("id"), c.FormValue("password"))
	})
}

func (h *UserHandler) ToggleStatus(c echo.Context) error {
	return h.mutate(c, func(sessionID string) (string, error) {
		return h.userService.ToggleStatus(c.Request().Context(), sessionID, c.Param("id"))
	})
}

// mutate runs one user mutation and shows the list as it stands afterwards,
// narrowed by the search the operator had active. A cancelled prompt is not
// reported.
func (h *UserHandler) mutate(c echo.Context, run func(sessionID string) (string, error)) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	status := http.StatusOK
	p := newPage(c, "User Management", nil)

	msg, err := run(sess.ID)
	switch {
	case errors.Is(err, domain.ErrNothingToApply):
	case err != nil:
		if p.Error = domain.MessageOf(err, ""); p.Error == "" {
			return err
		}
		status = StatusFor(err)
	default:
		p.Notice = msg
	}

	search := c.FormValue("search")
	users, err := h.userService.List(c.Request().Context(), sess.ID, search)
	if err != nil {
		return renderFailure(c, "users", newPage(c, "User Management", usersData{Search: search}), err)
	}
	p.Data = usersData{Search: search, Users: users}
	return c.Render(status, "users", p)
}
