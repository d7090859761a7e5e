package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
)

func TestDiff_SingleFieldChangeIsSparse(t *testing.T) {
	e := newEngineAt(time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC))
	before := &domain.Ticket{ID: "t1", Priority: domain.TicketPriorityLow, Description: "panel fault"}
	after := &domain.Ticket{ID: "t1", Priority: domain.TicketPriorityHigh, Description: "panel fault"}

	entry := e.Diff(before, after, "user-1", "triage")

	require.Len(t, entry.Changes, 1)
	change, ok := entry.Changes[engine.FieldPriority]
	require.True(t, ok)
	assert.Equal(t, "Low", change.Old)
	assert.Equal(t, "High", change.New)
	assert.Equal(t, "t1", entry.TicketID)
	assert.Equal(t, "user-1", entry.ActorID)
	assert.Equal(t, "triage", entry.Reason)
}

func TestDiff_EmptyAndMissingValuesAreEquivalent(t *testing.T) {
	e := newEngineAt(time.Now())
	before := &domain.Ticket{ID: "t1", Notes: ""}
	after := &domain.Ticket{ID: "t1"}

	entry := e.Diff(before, after, "user-1", "")
	assert.Empty(t, entry.Changes)
}

func TestDiff_NoOpEditStillReturnsEntry(t *testing.T) {
	e := newEngineAt(time.Now())
	ticket := &domain.Ticket{ID: "t1", Status: domain.TicketStatusOpen}

	entry := e.Diff(ticket, ticket, "user-2", "resubmitted without changes")

	assert.Empty(t, entry.Changes)
	assert.Equal(t, "resubmitted without changes", entry.Reason)
	assert.Equal(t, "t1", entry.TicketID)
}

func TestDiff_NilBeforeTreatedAsEmpty(t *testing.T) {
	e := newEngineAt(time.Now())
	after := &domain.Ticket{ID: "t1", Status: domain.TicketStatusOpen, SiteName: "Mesa Verde"}

	entry := e.Diff(nil, after, "user-1", "")

	assert.Equal(t, "t1", entry.TicketID)
	assert.Equal(t, domain.FieldChange{Old: "", New: "Open"}, entry.Changes[engine.FieldStatus])
	assert.Equal(t, domain.FieldChange{Old: "", New: "Mesa Verde"}, entry.Changes[engine.FieldSite])
}

func TestDiff_TimestampAndNumericFields(t *testing.T) {
	e := newEngineAt(time.Now())
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	kw := 120.5

	before := &domain.Ticket{ID: "t1"}
	after := &domain.Ticket{ID: "t1", IssueStartTime: &start, KWDown: &kw}

	entry := e.Diff(before, after, "user-1", "")

	require.Len(t, entry.Changes, 2)
	assert.Equal(t, "2024-05-01T08:00:00Z", entry.Changes[engine.FieldIssueStart].New)
	assert.Equal(t, "120.5", entry.Changes[engine.FieldKWDown].New)
}
