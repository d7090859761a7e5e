package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// OwnershipScope selects which tickets are eligible before any other
// filter applies.
type OwnershipScope string

const (
	ScopeAll  OwnershipScope = "all"
	ScopeMine OwnershipScope = "mine"
)

// QuickFilter is an exclusive, stat-card-driven shortcut filter.
type QuickFilter string

const (
	QuickFilterNone       QuickFilter = ""
	QuickFilterTotal      QuickFilter = "total"
	QuickFilterOpen       QuickFilter = "open"
	QuickFilterPending    QuickFilter = "pending"
	QuickFilterClosed     QuickFilter = "closed"
	QuickFilterProduction QuickFilter = "production"
	QuickFilterToday      QuickFilter = "today"
)

// FilterState is the ephemeral combination of active filters for one
// view session. It is created fresh per session, reset on scope change
// and cleared explicitly by the user.
type FilterState struct {
	Scope       OwnershipScope
	Search      string
	Status      string
	Priority    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Quick       QuickFilter
}

// NewFilterState returns an empty state for the given scope.
func NewFilterState(scope OwnershipScope) FilterState {
	if scope == "" {
		scope = ScopeAll
	}
	return FilterState{Scope: scope}
}

// SetScope switches ownership scope and resets every other filter.
func (f *FilterState) SetScope(scope OwnershipScope) {
	*f = NewFilterState(scope)
}

// Clear drops all filters but keeps the ownership scope.
func (f *FilterState) Clear() {
	scope := f.Scope
	*f = NewFilterState(scope)
}

// ToggleQuickFilter activates a quick filter, clearing search, date
// range, priority and the plain status filter so that at most one
// exclusive dimension is active. Re-toggling the active quick filter
// turns it off, reverting to the bare ownership scope.
func (f *FilterState) ToggleQuickFilter(q QuickFilter) {
	scope := f.Scope
	if f.Quick == q {
		*f = NewFilterState(scope)
		return
	}
	*f = NewFilterState(scope)
	f.Quick = q
}

// ApplyFilters narrows tickets to those matching the filter state.
// Ownership scope is evaluated first; the remaining predicates compose
// with logical AND. The function is pure and performs no I/O.
func (e *Engine) ApplyFilters(tickets []domain.Ticket, state FilterState, user *domain.User) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		if state.Scope == ScopeMine && !OwnedBy(t, user) {
			continue
		}
		if state.Quick != QuickFilterNone {
			if e.matchesQuickFilter(t, state.Quick) {
				result = append(result, *t)
			}
			continue
		}
		if !matchesSearch(t, state.Search) {
			continue
		}
		if state.Status != "" && !equalFold(string(t.DisplayStatus()), state.Status) {
			continue
		}
		if state.Priority != "" && !equalFold(string(t.Priority), state.Priority) {
			continue
		}
		if !withinRange(t.CreatedAt, state.CreatedFrom, state.CreatedTo) {
			continue
		}
		result = append(result, *t)
	}
	return result
}

// OwnedBy reports whether a ticket belongs to the user. Upstream data
// is sometimes denormalized inconsistently, so a match on any of the
// owner identifier, the identifier stored as an email, the creator
// display name or the creator email qualifies.
func OwnedBy(t *domain.Ticket, user *domain.User) bool {
	if user == nil {
		return false
	}
	if t.OwnerID != "" && t.OwnerID == user.ID {
		return true
	}
	if t.OwnerID != "" && user.Email != "" && equalFold(t.OwnerID, user.Email) {
		return true
	}
	if t.CreatorName != "" && user.Name != "" && equalFold(t.CreatorName, user.Name) {
		return true
	}
	if t.CreatorEmail != "" && user.Email != "" && equalFold(t.CreatorEmail, user.Email) {
		return true
	}
	return false
}

func (e *Engine) matchesQuickFilter(t *domain.Ticket, q QuickFilter) bool {
	switch q {
	case QuickFilterTotal:
		return true
	case QuickFilterOpen:
		return equalFold(string(t.DisplayStatus()), string(domain.TicketStatusOpen))
	case QuickFilterPending:
		return equalFold(string(t.DisplayStatus()), string(domain.TicketStatusPending))
	case QuickFilterClosed:
		return e.IsTerminal(t.DisplayStatus())
	case QuickFilterProduction:
		return isProductionImpacting(t)
	case QuickFilterToday:
		return sameDay(t.CreatedAt, e.now())
	default:
		e.logger.Debug("unrecognized quick filter", zap.String("quick_filter", string(q)))
		return false
	}
}

// isProductionImpacting is the quick filter's deliberately broad
// heuristic: a category mentioning production, or an urgent/critical
// priority, both count. The stats buckets use a narrower category
// match so they stay a partition.
func isProductionImpacting(t *domain.Ticket) bool {
	if strings.Contains(strings.ToLower(string(t.Category)), "production") {
		return true
	}
	return hasUrgentPriority(t)
}

func hasUrgentPriority(t *domain.Ticket) bool {
	return equalFold(string(t.Priority), string(domain.TicketPriorityUrgent)) ||
		equalFold(string(t.Priority), string(domain.TicketPriorityCritical))
}

func matchesSearch(t *domain.Ticket, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	haystacks := []string{
		t.TicketNumber,
		t.CreatorName,
		t.Equipment,
		string(t.Category),
		t.SiteName,
		t.Description,
		t.CaseNumber,
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), term) {
			return true
		}
	}
	return false
}

func withinRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}

// sameDay compares calendar days in the reference time's location.
func sameDay(a, ref time.Time) bool {
	ay, am, ad := a.In(ref.Location()).Date()
	by, bm, bd := ref.Date()
	return ay == by && am == bm && ad == bd
}
