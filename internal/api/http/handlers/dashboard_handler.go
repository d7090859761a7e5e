package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solar-ticketing/internal/api/dto"
	"github.com/spec-kit/solar-ticketing/internal/auth"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/service"
	apperrors "github.com/spec-kit/solar-ticketing/pkg/util"
)

// DashboardHandler serves stat cards and executive summary KPIs.
type DashboardHandler struct {
	snapshots *service.SnapshotService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(snapshots *service.SnapshotService) *DashboardHandler {
	return &DashboardHandler{snapshots: snapshots}
}

// Stats GET /dashboard/stats. Aggregates the ownership-scoped
// collection, independent of any search or date filter the listing
// view has active.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.snapshots.EnsureFresh(c.Context()); err != nil {
		return err
	}

	scope := engine.ScopeAll
	if strings.EqualFold(c.Query("scope"), string(engine.ScopeMine)) {
		scope = engine.ScopeMine
	}

	stats, err := h.snapshots.Stats(c.Context(), user, scope)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{Scope: string(scope), Stats: stats}})
}
