package engine

import (
	"strconv"
	"time"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// Audit field names, as stored in the change map.
const (
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldCategory    = "category"
	FieldEquipment   = "equipment"
	FieldSite        = "site"
	FieldDescription = "description"
	FieldNotes       = "notes"
	FieldCaseNumber  = "case_number"
	FieldKWDown      = "kw_down"
	FieldSiteOutage  = "site_outage"
	FieldIssueStart  = "issue_start_time"
	FieldIssueEnd    = "issue_end_time"
)

// Diff produces a sparse field-level audit entry for an update. Values
// are compared after normalizing empty strings and nil to a single
// empty sentinel, so a change from null to "" does not generate a
// spurious entry. When no tracked field differs the entry still
// carries the reason with an empty change map; callers decide whether
// a no-op edit is worth recording.
func (e *Engine) Diff(before, after *domain.Ticket, actorID, reason string) domain.AuditEntry {
	entry := domain.AuditEntry{
		ActorID:   actorID,
		Reason:    reason,
		Changes:   make(map[string]domain.FieldChange),
		CreatedAt: e.now(),
	}
	if after != nil {
		entry.TicketID = after.ID
	} else if before != nil {
		entry.TicketID = before.ID
	}

	for field, extract := range trackedFields {
		old := extract(before)
		next := extract(after)
		if old != next {
			entry.Changes[field] = domain.FieldChange{Old: old, New: next}
		}
	}
	return entry
}

// trackedFields maps audit field names to normalized value extractors.
// Extractors tolerate nil tickets so a partial before/after still diffs.
var trackedFields = map[string]func(*domain.Ticket) string{
	FieldStatus:      func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return string(t.Status) }) },
	FieldPriority:    func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return string(t.Priority) }) },
	FieldCategory:    func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return string(t.Category) }) },
	FieldEquipment:   func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return t.Equipment }) },
	FieldSite:        func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return t.SiteName }) },
	FieldDescription: func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return t.Description }) },
	FieldNotes:       func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return t.Notes }) },
	FieldCaseNumber:  func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return t.CaseNumber }) },
	FieldKWDown:      func(t *domain.Ticket) string { return normalized(t, kwDownValue) },
	FieldSiteOutage:  func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return string(t.SiteOutage) }) },
	FieldIssueStart:  func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return timeValue(t.IssueStartTime) }) },
	FieldIssueEnd:    func(t *domain.Ticket) string { return normalized(t, func(t *domain.Ticket) string { return timeValue(t.IssueEndTime) }) },
}

func normalized(t *domain.Ticket, extract func(*domain.Ticket) string) string {
	if t == nil {
		return ""
	}
	return extract(t)
}

func kwDownValue(t *domain.Ticket) string {
	if t.KWDown == nil {
		return ""
	}
	return strconv.FormatFloat(*t.KWDown, 'f', -1, 64)
}

func timeValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
