package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

const msgSessionExpired = "User ID not found. Please log in again."

type AuthHandler struct {
	authService ports.AuthService
	cookieTTL   time.Duration
}

// NewAuthHandler builds the login, signup and logout screens. cookieTTL
// matches the session ttl; zero issues a browser-session cookie.
func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL}
}

type loginForm struct {
	EmployeeID string `form:"employeeId"`
	Password   string `form:"password"`
}

type signupForm struct {
	FirstName            string `form:"firstName"`
	EmployeeID           string `form:"employeeId"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"passwordConfirmation"`
}

// LoginPage renders the login form. reason=session means a protected screen
// was opened without a session.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	p := newPage(c, "Login", loginForm{})
	if c.QueryParam("reason") == "session" {
		p.Error = msgSessionExpired
	}
	return c.Render(http.StatusOK, "login", p)
}

// Login opens a session and sends the operator to patient intake.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	token, _, err := h.authService.Login(c.Request().Context(), domain.Credentials{
		EmployeeID: form.EmployeeID,
		Password:   form.Password,
	})
	if err != nil {
		form.Password = ""
		return renderFailure(c, "login", newPage(c, "Login", form), err)
	}

	middleware.SetSessionCookie(c, token, h.cookieTTL)
	return c.Redirect(http.StatusSeeOther, "/home")
}

func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", newPage(c, "Signup", signupForm{}))
}

// Signup registers an account. The form is cleared on success.
func (h *AuthHandler) Signup(c echo.Context) error {
	var form signupForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	msg, err := h.authService.Signup(c.Request().Context(), domain.Registration{
		FirstName:            form.FirstName,
		EmployeeID:           form.EmployeeID,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
	if err != nil {
		form.Password, form.PasswordConfirmation = "", ""
		return renderFailure(c, "signup", newPage(c, "Signup", form), err)
	}

	p := newPage(c, "Signup", signupForm{})
	p.Notice = msg
	return c.Render(http.StatusOK, "signup", p)
}

// Logout closes the session and returns to the dashboard.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := h.authService.Logout(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
