package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solar-ticketing/internal/auth"
	"github.com/spec-kit/solar-ticketing/internal/service"
	apperrors "github.com/spec-kit/solar-ticketing/pkg/util"
)

// ReportsHandler serves CSV exports of filtered ticket collections.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// ExportCSV GET /reports/tickets.csv. Accepts the same filter query
// parameters as the ticket listing; the export reflects exactly what
// the user is looking at, filters included.
func (h *ReportsHandler) ExportCSV(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	state := parseFilterQuery(c)
	report, err := h.reports.Export(c.Context(), user, state)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+report.Filename+`"`)
	c.Set("X-Export-Total", strconv.Itoa(report.Summary.Total))
	return c.Send(report.CSV)
}
