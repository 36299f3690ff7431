package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/api/view"
	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

const (
	msgIntakeIncomplete = "All fields, including user ID, are required."
	msgLabelUnavailable = "Unable to generate the barcode for this Path ID."
)

var genders = []struct {
	Value domain.Gender
	Label string
}{
	{domain.GenderMale, "Male"},
	{domain.GenderFemale, "Female"},
	{domain.GenderOther, "Other"},
}

type genderOption struct {
	Value    string
	Label    string
	Selected bool
}

// labelView is the label block shared by the intake and reprint screens.
type labelView struct {
	Flow  string
	Sheet *ports.LabelSheet
}

type intakeData struct {
	Form    ports.IntakeForm
	Genders []genderOption
	Label   *labelView
}

type IntakeHandler struct {
	intakeService ports.IntakeService
	labelService  ports.LabelService
}

func NewIntakeHandler(intakeService ports.IntakeService, labelService ports.LabelService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService, labelService: labelService}
}

func (h *IntakeHandler) Form(c echo.Context) error {
	return c.Render(http.StatusOK, "home", intakePage(c, ports.IntakeForm{}, nil))
}

// Submit registers the patient. On success the form is cleared and the label
// for the new path id is shown; on failure the form keeps what was typed.
func (h *IntakeHandler) Submit(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form ports.IntakeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return renderFailure(c, "home", intakePage(c, form, nil), intakeValidationError(err))
	}

	res, err := h.intakeService.Submit(c.Request().Context(), sess, form)
	if err != nil {
		return renderFailure(c, "home", intakePage(c, form, nil), err)
	}

	// The patient exists upstream from here on; a label failure must not hide that.
	var lv *labelView
	sheet, err := h.labelService.Sheet(ports.FlowIntake, sess, res.PathID)
	if err == nil {
		lv = &labelView{Flow: ports.FlowIntake, Sheet: sheet}
	}

	p := intakePage(c, ports.IntakeForm{}, lv)
	p.Notice = res.Message
	if err != nil {
		p.Error = msgLabelUnavailable
	}
	return c.Render(http.StatusOK, "home", p)
}

func intakePage(c echo.Context, form ports.IntakeForm, label *labelView) view.Page {
	opts := make([]genderOption, 0, len(genders))
	for _, g := range genders {
		opts = append(opts, genderOption{
			Value:    string(g.Value),
			Label:    g.Label,
			Selected: form.Gender == string(g.Value),
		})
	}
	return newPage(c, "Patient Information", intakeData{Form: form, Genders: opts, Label: label})
}

// intakeValidationError keeps the age or path id message when that rule is the
// only problem. Anything else is reported as an incomplete form.
func intakeValidationError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		for _, tag := range []string{"age", "barcode"} {
			if verr.Only(tag) {
				return domain.WithMessage(err, verr.Fields[0].Message)
			}
		}
	}
	return domain.WithMessage(err, msgIntakeIncomplete)
}
