package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
)

func TestParseTimeFormats(t *testing.T) {
	assert.Nil(t, parseTime(""))
	assert.Nil(t, parseTime("not-a-date"))

	got := parseTime("2024-05-15T09:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC), got.UTC())

	bare := parseTime("2024-05-15")
	require.NotNil(t, bare)
	assert.Equal(t, 0, bare.Hour())
}

func TestParseEndTimeBareDateIsInclusive(t *testing.T) {
	to := parseEndTime("2024-05-15")
	require.NotNil(t, to)

	// A ticket created late on the end date is still inside the range.
	created := time.Date(2024, 5, 15, 18, 30, 0, 0, time.Local)
	state := engine.NewFilterState(engine.ScopeAll)
	state.CreatedTo = to

	e := engine.New(engine.Config{}, nil)
	got := e.ApplyFilters([]domain.Ticket{{ID: "t1", CreatedAt: created}}, state, nil)
	require.Len(t, got, 1)

	// The day after is outside.
	nextDay := time.Date(2024, 5, 16, 0, 0, 1, 0, time.Local)
	got = e.ApplyFilters([]domain.Ticket{{ID: "t2", CreatedAt: nextDay}}, state, nil)
	assert.Empty(t, got)
}

func TestParseEndTimeRFC3339Verbatim(t *testing.T) {
	to := parseEndTime("2024-05-15T12:00:00Z")
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), to.UTC())
}
