package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solar-ticketing/internal/auth"
	"github.com/spec-kit/solar-ticketing/internal/repository"
	apperrors "github.com/spec-kit/solar-ticketing/pkg/util"
)

// CatalogHandler serves the reference catalog for ticket entry forms.
type CatalogHandler struct {
	catalog repository.CatalogRepository
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListSites GET /catalog/sites.
func (h *CatalogHandler) ListSites(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	sites, err := h.catalog.ListSites(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sites})
}

// ListEquipment GET /catalog/sites/:id/equipment.
func (h *CatalogHandler) ListEquipment(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	equipment, err := h.catalog.ListEquipmentBySite(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipment})
}
