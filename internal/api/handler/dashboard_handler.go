package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Dashboard is the navigation hub shown at "/".
func Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard", newPage(c, "Dashboard", nil))
}
