package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
)

var testUser = &domain.User{
	ID:    "user-1",
	Name:  "Dana Fields",
	Email: "dana@solarco.example",
}

func sampleTickets(now time.Time) []domain.Ticket {
	return []domain.Ticket{
		{
			ID:           "t1",
			TicketNumber: "TKT-1001",
			OwnerID:      "user-1",
			CreatorName:  "Dana Fields",
			Status:       domain.TicketStatusOpen,
			Priority:     domain.TicketPriorityHigh,
			Category:     domain.CategoryCommunicationIssues,
			SiteName:     "Ridgeline Solar",
			Equipment:    "Inverter 3",
			Description:  "Inverter offline after storm",
			CreatedAt:    now.Add(-48 * time.Hour),
		},
		{
			ID:           "t2",
			TicketNumber: "TKT-1002",
			OwnerID:      "user-2",
			CreatorEmail: "dana@solarco.example",
			Status:       domain.TicketStatusPending,
			Priority:     domain.TicketPriorityUrgent,
			Category:     domain.CategoryCannotConfirm,
			SiteName:     "Mesa Verde",
			Description:  "No telemetry from tracker row",
			CreatedAt:    now.Add(-24 * time.Hour),
		},
		{
			ID:           "t3",
			TicketNumber: "TKT-1003",
			OwnerID:      "user-3",
			CreatorName:  "Omar Reyes",
			Status:       domain.TicketStatusClosed,
			Priority:     domain.TicketPriorityLow,
			Category:     domain.CategoryProductionImpacting,
			SiteName:     "Ridgeline Solar",
			CaseNumber:   "CASE-77",
			Description:  "String outage, fuse replaced",
			CreatedAt:    now,
		},
	}
}

func TestApplyFilters_OwnershipOrSemantics(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := sampleTickets(now)

	got := e.ApplyFilters(tickets, engine.NewFilterState(engine.ScopeMine), testUser)

	require.Len(t, got, 2)
	// t2 has a mismatching owner id but a matching creator email.
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)
}

func TestApplyFilters_SearchMatchesAnyField(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := sampleTickets(now)

	cases := map[string][]string{
		"tkt-1002":   {"t2"},
		"ridgeline":  {"t1", "t3"},
		"inverter 3": {"t1"},
		"case-77":    {"t3"},
		"omar":       {"t3"},
	}
	for term, wantIDs := range cases {
		state := engine.NewFilterState(engine.ScopeAll)
		state.Search = term
		got := e.ApplyFilters(tickets, state, testUser)
		ids := make([]string, 0, len(got))
		for _, ticket := range got {
			ids = append(ids, ticket.ID)
		}
		assert.Equal(t, wantIDs, ids, "search %q", term)
	}
}

func TestApplyFilters_StatusAndPriority(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := sampleTickets(now)

	state := engine.NewFilterState(engine.ScopeAll)
	state.Status = "pending"
	state.Priority = "urgent"
	got := e.ApplyFilters(tickets, state, testUser)

	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)
}

func TestApplyFilters_DateRangeInclusive(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := sampleTickets(now)

	from := now.Add(-24 * time.Hour)
	state := engine.NewFilterState(engine.ScopeAll)
	state.CreatedFrom = &from
	state.CreatedTo = &now

	got := e.ApplyFilters(tickets, state, testUser)
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
}

func TestToggleQuickFilter_ClearsOtherFilters(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	state := engine.NewFilterState(engine.ScopeMine)
	state.Search = "inverter"
	state.Status = "Pending"
	state.Priority = "High"
	state.CreatedFrom = &from

	state.ToggleQuickFilter(engine.QuickFilterOpen)

	assert.Equal(t, engine.QuickFilterOpen, state.Quick)
	assert.Empty(t, state.Search)
	assert.Empty(t, state.Status)
	assert.Empty(t, state.Priority)
	assert.Nil(t, state.CreatedFrom)
	assert.Equal(t, engine.ScopeMine, state.Scope)
}

func TestToggleQuickFilter_SameFilterTogglesOff(t *testing.T) {
	state := engine.NewFilterState(engine.ScopeAll)
	state.ToggleQuickFilter(engine.QuickFilterClosed)
	state.ToggleQuickFilter(engine.QuickFilterClosed)
	assert.Equal(t, engine.QuickFilterNone, state.Quick)
}

func TestApplyFilters_QuickFilterProduction(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := sampleTickets(now)

	state := engine.NewFilterState(engine.ScopeAll)
	state.ToggleQuickFilter(engine.QuickFilterProduction)
	got := e.ApplyFilters(tickets, state, testUser)

	// t2 qualifies by urgent priority, t3 by production category.
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
}

func TestApplyFilters_QuickFilterClosedIncludesResolved(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := []domain.Ticket{
		{ID: "a", Status: domain.TicketStatusResolved, CreatedAt: now},
		{ID: "b", Status: domain.TicketStatusOpen, CreatedAt: now},
	}

	state := engine.NewFilterState(engine.ScopeAll)
	state.ToggleQuickFilter(engine.QuickFilterClosed)
	got := e.ApplyFilters(tickets, state, testUser)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestApplyFilters_QuickFilterToday(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := sampleTickets(now)

	state := engine.NewFilterState(engine.ScopeAll)
	state.ToggleQuickFilter(engine.QuickFilterToday)
	got := e.ApplyFilters(tickets, state, testUser)

	require.Len(t, got, 1)
	assert.Equal(t, "t3", got[0].ID)
}

func TestApplyFilters_LegacyStatusFallback(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	e := newEngineAt(now)
	tickets := []domain.Ticket{
		{ID: "a", LegacyStatus: domain.TicketStatusOpen, CreatedAt: now},
	}

	state := engine.NewFilterState(engine.ScopeAll)
	state.Status = "Open"
	got := e.ApplyFilters(tickets, state, testUser)
	require.Len(t, got, 1)
}

func TestSetScope_ResetsFilters(t *testing.T) {
	state := engine.NewFilterState(engine.ScopeAll)
	state.Search = "storm"
	state.ToggleQuickFilter(engine.QuickFilterOpen)

	state.SetScope(engine.ScopeMine)

	assert.Equal(t, engine.ScopeMine, state.Scope)
	assert.Empty(t, state.Search)
	assert.Equal(t, engine.QuickFilterNone, state.Quick)
}
