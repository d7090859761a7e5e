package dto

import (
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/export"
)

// StatsResponse wraps dashboard stats with the scope they aggregate.
type StatsResponse struct {
	Scope string       `json:"scope"`
	Stats engine.Stats `json:"stats"`
}

// TicketPageResponse is a paginated, filtered ticket listing together
// with the scoped stat-card counters. Page counts reflect the filtered
// subset; Stats reflects the full ownership scope.
type TicketPageResponse struct {
	Items      []TicketSummary `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalItems int             `json:"total_items"`
	TotalPages int             `json:"total_pages"`
	Stats      engine.Stats    `json:"stats"`
}

// NewTicketPage maps a pagination result onto the response shape.
func NewTicketPage(page export.Page, items []TicketSummary, stats engine.Stats) TicketPageResponse {
	return TicketPageResponse{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		Stats:      stats,
	}
}
