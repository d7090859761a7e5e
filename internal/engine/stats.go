package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// Stats aggregates a ticket collection into dashboard counters and KPIs.
//
// Callers must keep two aggregations apart: stat cards compute over the
// full ownership-scoped collection so click-to-filter counts stay
// accurate, while "showing N of M" headers and export summaries compute
// over the currently filtered subset.
type Stats struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	Pending  int `json:"pending"`
	Closed   int `json:"closed"`
	Resolved int `json:"resolved"`

	ProductionImpacting int `json:"production_impacting"`
	CommunicationIssues int `json:"communication_issues"`
	CannotConfirm       int `json:"cannot_confirm"`

	ByPriority map[string]int `json:"by_priority"`
	BySite     map[string]int `json:"by_site"`
	ByUser     map[string]int `json:"by_user"`

	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`

	MostActiveSite string `json:"most_active_site"`
	// AvgTimeToClose is the mean of closed_at - created_at over tickets
	// that have closed_at; tickets without it are excluded, not
	// zero-filled.
	AvgTimeToClose time.Duration `json:"avg_time_to_close_ns"`
	// ResolutionRate is closed/total as a percentage, 0 for an empty
	// collection.
	ResolutionRate float64 `json:"resolution_rate"`
}

// ComputeStats reduces a ticket collection into Stats. Unrecognized
// status, category or priority values count toward Total but no
// specific bucket; they are logged as upstream data drift.
func (e *Engine) ComputeStats(tickets []domain.Ticket) Stats {
	stats := Stats{
		ByPriority: make(map[string]int),
		BySite:     make(map[string]int),
		ByUser:     make(map[string]int),
	}

	now := e.now()
	weekStart := startOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var closeTotal time.Duration
	var closeCount int

	for i := range tickets {
		t := &tickets[i]
		stats.Total++

		switch {
		case equalFold(string(t.DisplayStatus()), string(domain.TicketStatusOpen)):
			stats.Open++
		case equalFold(string(t.DisplayStatus()), string(domain.TicketStatusPending)):
			stats.Pending++
		case equalFold(string(t.DisplayStatus()), string(domain.TicketStatusClosed)):
			stats.Closed++
		case equalFold(string(t.DisplayStatus()), string(domain.TicketStatusResolved)):
			stats.Resolved++
		default:
			e.logger.Debug("unrecognized ticket status",
				zap.String("ticket_number", t.TicketNumber),
				zap.String("status", string(t.DisplayStatus())))
		}

		// The category buckets partition the known enum values, so the
		// production leg matches the exact category here rather than the
		// quick filter's substring heuristic, which would swallow
		// "Cannot Confirm Production". Urgent and critical tickets still
		// count as production impacting whatever their category.
		switch {
		case equalFold(string(t.Category), string(domain.CategoryProductionImpacting)) || hasUrgentPriority(t):
			stats.ProductionImpacting++
		case equalFold(string(t.Category), string(domain.CategoryCommunicationIssues)):
			stats.CommunicationIssues++
		case equalFold(string(t.Category), string(domain.CategoryCannotConfirm)):
			stats.CannotConfirm++
		case t.Category != "":
			e.logger.Debug("unrecognized ticket category",
				zap.String("ticket_number", t.TicketNumber),
				zap.String("category", string(t.Category)))
		}

		if t.Priority != "" {
			stats.ByPriority[string(t.Priority)]++
		}
		if t.SiteName != "" {
			stats.BySite[t.SiteName]++
		}
		if owner := ownerKey(t); owner != "" {
			stats.ByUser[owner]++
		}

		if sameDay(t.CreatedAt, now) {
			stats.Today++
		}
		if !t.CreatedAt.Before(weekStart) {
			stats.ThisWeek++
		}
		if !t.CreatedAt.Before(monthStart) {
			stats.ThisMonth++
		}

		if t.ClosedAt != nil {
			closeTotal += t.ClosedAt.Sub(t.CreatedAt)
			closeCount++
		}
	}

	stats.MostActiveSite = maxKey(stats.BySite)
	if closeCount > 0 {
		stats.AvgTimeToClose = closeTotal / time.Duration(closeCount)
	}
	if stats.Total > 0 {
		terminal := 0
		for i := range tickets {
			if e.IsTerminal(tickets[i].DisplayStatus()) {
				terminal++
			}
		}
		stats.ResolutionRate = float64(terminal) / float64(stats.Total) * 100
	}
	return stats
}

func ownerKey(t *domain.Ticket) string {
	if t.CreatorName != "" {
		return t.CreatorName
	}
	if t.CreatorEmail != "" {
		return t.CreatorEmail
	}
	return t.OwnerID
}

// startOfWeek returns midnight of the most recent Sunday in the
// reference time's location.
func startOfWeek(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

func maxKey(counts map[string]int) string {
	best := ""
	bestCount := 0
	for key, count := range counts {
		if count > bestCount || (count == bestCount && best != "" && key < best) {
			best = key
			bestCount = count
		}
	}
	return best
}
