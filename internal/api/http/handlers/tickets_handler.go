package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solar-ticketing/internal/api/dto"
	"github.com/spec-kit/solar-ticketing/internal/auth"
	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/export"
	"github.com/spec-kit/solar-ticketing/internal/service"
	apperrors "github.com/spec-kit/solar-ticketing/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	snapshots *service.SnapshotService
	engine    *engine.Engine
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, snapshots *service.SnapshotService, eng *engine.Engine) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, snapshots: snapshots, engine: eng}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), user, service.TicketCreateInput{
		Category:       req.Category,
		Priority:       req.Priority,
		SiteOutage:     req.SiteOutage,
		SiteName:       req.SiteName,
		ClientType:     req.ClientType,
		Equipment:      req.Equipment,
		Description:    req.Description,
		Notes:          req.Notes,
		CaseNumber:     req.CaseNumber,
		KWDown:         req.KWDown,
		IssueStartTime: req.IssueStartTime,
		IssueEndTime:   req.IssueEndTime,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.ticketSummary(ticket)})
}

// ListTickets GET /tickets. Returns the filtered, paginated listing
// together with stat-card counters over the full ownership scope.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.snapshots.EnsureFresh(c.Context()); err != nil {
		return err
	}

	state := parseFilterQuery(c)
	stats, err := h.snapshots.Stats(c.Context(), user, state.Scope)
	if err != nil {
		return err
	}
	filtered := h.snapshots.FilteredTickets(user, state)

	page := export.Paginate(filtered, parseInt(c.Query("page"), 1), parseInt(c.Query("page_size"), 20))
	items := make([]dto.TicketSummary, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, h.ticketSummary(&page.Items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketPage(page, items, stats)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, duration, history, err := h.tickets.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketDetail(ticket, duration, history)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateTicket(c.Context(), user, c.Params("id"), service.TicketUpdateInput{
		Category:       req.Category,
		Priority:       req.Priority,
		SiteOutage:     req.SiteOutage,
		SiteName:       req.SiteName,
		Equipment:      req.Equipment,
		Description:    req.Description,
		Notes:          req.Notes,
		CaseNumber:     req.CaseNumber,
		KWDown:         req.KWDown,
		IssueStartTime: req.IssueStartTime,
		IssueEndTime:   req.IssueEndTime,
		Reason:         req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketSummary(ticket)})
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateStatus(c.Context(), user, c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketSummary(ticket)})
}

// parseFilterQuery maps query parameters onto a filter state. A quick
// filter wins over the other predicates, mirroring the stat-card UI
// where selecting one clears search, date range, priority and status.
func parseFilterQuery(c *fiber.Ctx) engine.FilterState {
	scope := engine.ScopeAll
	if strings.EqualFold(c.Query("scope"), string(engine.ScopeMine)) {
		scope = engine.ScopeMine
	}
	state := engine.NewFilterState(scope)

	if quick := c.Query("quick"); quick != "" {
		state.ToggleQuickFilter(engine.QuickFilter(strings.ToLower(quick)))
		return state
	}

	state.Search = c.Query("search")
	state.Status = c.Query("status")
	state.Priority = c.Query("priority")
	state.CreatedFrom = parseTime(c.Query("created_from"))
	state.CreatedTo = parseEndTime(c.Query("created_to"))
	return state
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Bare dates are accepted for range pickers.
		t, err = time.ParseInLocation("2006-01-02", val, time.Local)
		if err != nil {
			return nil
		}
	}
	return &t
}

// parseEndTime treats a bare end date as inclusive: it resolves to the
// last instant of that day, so tickets created any time during the day
// fall inside the range.
func parseEndTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}
	t, err := time.ParseInLocation("2006-01-02", val, time.Local)
	if err != nil {
		return nil
	}
	end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func (h *TicketsHandler) ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	requestor := ticket.CreatorName
	if requestor == "" {
		requestor = ticket.CreatorEmail
	}
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		SiteOutage:   ticket.SiteOutage,
		Status:       ticket.DisplayStatus(),
		SiteName:     ticket.SiteName,
		Equipment:    ticket.Equipment,
		Requestor:    requestor,
		Duration:     h.engine.ComputeDuration(ticket),
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func (h *TicketsHandler) ticketDetail(ticket *domain.Ticket, duration string, history []domain.AuditEntry) dto.TicketDetailResponse {
	summary := h.ticketSummary(ticket)
	summary.Duration = duration

	entries := make([]dto.AuditEntryResponse, 0, len(history))
	for _, entry := range history {
		entries = append(entries, dto.AuditEntryResponse{
			ID:        entry.ID,
			ActorID:   entry.ActorID,
			Reason:    entry.Reason,
			Changes:   entry.Changes,
			CreatedAt: entry.CreatedAt,
		})
	}
	return dto.TicketDetailResponse{
		TicketSummary:  summary,
		ClientType:     ticket.ClientType,
		Description:    ticket.Description,
		Notes:          ticket.Notes,
		CaseNumber:     ticket.CaseNumber,
		KWDown:         ticket.KWDown,
		IssueStartTime: ticket.IssueStartTime,
		IssueEndTime:   ticket.IssueEndTime,
		ClosedAt:       ticket.ClosedAt,
		History:        entries,
	}
}
