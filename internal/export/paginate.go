package export

import "github.com/spec-kit/solar-ticketing/internal/domain"

// Page is one slice of a filtered ticket collection plus the counts a
// "showing N of M" header needs.
type Page struct {
	Items      []domain.Ticket `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalItems int             `json:"total_items"`
	TotalPages int             `json:"total_pages"`
}

const defaultPageSize = 20

// Paginate slices an already-filtered collection. Page numbers are
// 1-based; out-of-range pages return an empty item list with the
// counts intact.
func Paginate(tickets []domain.Ticket, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(tickets)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      tickets[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
