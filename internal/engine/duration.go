package engine

import (
	"fmt"
	"time"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// NotAvailable is returned when there is insufficient data to compute
// a duration, or when the computed interval is negative (clock skew,
// bad manual entry).
const NotAvailable = "N/A"

// ComputeDuration derives the elapsed or closed time of a ticket's
// underlying issue. Precedence:
//
//  1. a precomputed TotalDuration string is authoritative and returned
//     verbatim
//  2. without an issue start time there is nothing to measure
//  3. the end instant is ClosedAt for terminal tickets, else the
//     recorded issue end time, else now, so open issues keep growing
//
// A user may pre-record an expected end time on a still-open ticket;
// the duration measures to now until the ticket actually closes.
func (e *Engine) ComputeDuration(t *domain.Ticket) string {
	if t == nil {
		return NotAvailable
	}
	if t.TotalDuration != "" {
		return t.TotalDuration
	}
	if t.IssueStartTime == nil {
		return NotAvailable
	}

	terminal := e.IsTerminal(t.DisplayStatus())
	var end time.Time
	switch {
	case terminal && t.ClosedAt != nil:
		end = *t.ClosedAt
	case t.IssueEndTime != nil:
		end = *t.IssueEndTime
		// A pre-recorded future end time does not apply until the
		// ticket actually closes.
		if !terminal && end.After(e.now()) {
			end = e.now()
		}
	default:
		end = e.now()
	}

	elapsed := end.Sub(*t.IssueStartTime)
	if elapsed < 0 {
		return NotAvailable
	}
	return FormatDuration(elapsed)
}

// FormatDuration renders a duration as "{d}d {h}h {m}m", dropping zero
// components from the most-significant side only. Zero durations render
// as "0m".
func FormatDuration(d time.Duration) string {
	minutes := int64(d / time.Minute)
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	mins := minutes % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}
