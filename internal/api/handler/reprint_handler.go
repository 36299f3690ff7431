package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

type reprintData struct {
	PathID  string
	Patient *domain.Patient
	Label   *labelView
}

type ReprintHandler struct {
	reprintService ports.ReprintService
	labelService   ports.LabelService
}

func NewReprintHandler(reprintService ports.ReprintService, labelService ports.LabelService) *ReprintHandler {
	return &ReprintHandler{reprintService: reprintService, labelService: labelService}
}

func (h *ReprintHandler) Form(c echo.Context) error {
	return c.Render(http.StatusOK, "reprint", newPage(c, "Reprint Label", reprintData{}))
}

// Lookup fetches the patient and shows the same label intake produced.
func (h *ReprintHandler) Lookup(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	pathID := c.FormValue("pathId")
	patient, err := h.reprintService.Lookup(c.Request().Context(), pathID)
	if err != nil {
		return renderFailure(c, "reprint", newPage(c, "Reprint Label", reprintData{PathID: pathID}), err)
	}

	data := reprintData{PathID: pathID, Patient: patient}
	sheet, err := h.labelService.Sheet(ports.FlowReprint, sess, patient.PathID)
	if err == nil {
		data.Label = &labelView{Flow: ports.FlowReprint, Sheet: sheet}
	}

	p := newPage(c, "Reprint Label", data)
	if err != nil {
		p.Error = msgLabelUnavailable
	}
	return c.Render(http.StatusOK, "reprint", p)
}
