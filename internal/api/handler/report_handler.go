package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/aph/pathlabel/internal/core/ports"
)

type reportData struct {
	Query          ports.ReportQuery
	Total          int
	Rows           []ports.ReportRow
	SpreadsheetURL string
	DocumentURL    string
}

type ReportHandler struct {
	reportService ports.ReportService
}

func NewReportHandler(reportService ports.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Report shows the patient list. Opening the screen without a mode fetches
// the list from the pathology service; filtering reuses that snapshot.
func (h *ReportHandler) Report(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var q ports.ReportQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
	}

	ctx := c.Request().Context()
	if q.Mode == "" {
		if _, err := h.reportService.Load(ctx, sess.ID); err != nil {
			return renderFailure(c, "report", newPage(c, "Report", reportPage(q, nil)), err)
		}
	}

	res, err := h.reportService.View(ctx, sess.ID, q)
	if err != nil {
		return renderFailure(c, "report", newPage(c, "Report", reportPage(q, nil)), err)
	}
	return c.Render(http.StatusOK, "report", newPage(c, "Report", reportPage(q, res)))
}

// Export downloads the current view in format.
func (h *ReportHandler) Export(format string) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := ctxSession(c)
		if err != nil {
			return err
		}

		var q ports.ReportQuery
		if err := c.Bind(&q); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
		}

		out, err := h.reportService.Export(c.Request().Context(), sess.ID, q, format)
		if err != nil {
			return err
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.Filename))
		return c.Blob(http.StatusOK, out.ContentType, out.Body)
	}
}

func reportPage(q ports.ReportQuery, res *ports.ReportResult) reportData {
	d := reportData{
		Query:          q,
		SpreadsheetURL: exportURL(ports.FormatSpreadsheet, q),
		DocumentURL:    exportURL(ports.FormatDocument, q),
	}
	if res != nil {
		d.Total = res.Total
		d.Rows = res.Rows
	}
	return d
}

// exportURL carries the active filter so the download matches the table.
func exportURL(format string, q ports.ReportQuery) string {
	v := url.Values{}
	for key, val := range map[string]string{
		"mode":   q.Mode,
		"pathId": q.PathID,
		"uhid":   q.UHID,
		"from":   q.From,
		"to":     q.To,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	u := "/report/export." + format
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}
