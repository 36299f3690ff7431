package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/label"
)

const svgSuffix = ".svg"

type LabelHandler struct {
	labelService ports.LabelService
}

func NewLabelHandler(labelService ports.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// SVG serves GET /labels/:id, where id is "<pathId>.svg".
func (h *LabelHandler) SVG(c echo.Context) error {
	file := c.Param("id")
	if !strings.HasSuffix(file, svgSuffix) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	svg, err := h.labelService.SVG(strings.TrimSuffix(file, svgSuffix))
	if errors.Is(err, label.ErrEmptyValue) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

// Printed records that the print dialog was opened for a label.
func (h *LabelHandler) Printed(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	flow := c.QueryParam("flow")
	if flow != ports.FlowIntake && flow != ports.FlowReprint {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown flow")
	}
	if err := h.labelService.Printed(flow, sess, c.Param("id")); err != nil {
		if errors.Is(err, label.ErrEmptyValue) {
			return echo.NewHTTPError(http.StatusBadRequest, "missing path id")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
