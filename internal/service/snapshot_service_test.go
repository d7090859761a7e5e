package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/events"
	"github.com/spec-kit/solar-ticketing/internal/service"
)

func seedTicket(t *testing.T, repo *fakeTicketRepo, owner, site string, status domain.TicketStatus) domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		TicketNumber: "TKT-SEED",
		Status:       status,
		OwnerID:      owner,
		SiteName:     site,
		Category:     domain.CategoryCommunicationIssues,
		Priority:     domain.TicketPriorityLow,
		Description:  "seeded",
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return *ticket
}

func TestSnapshotEnsureFreshOnlyReloadsWhenStale(t *testing.T) {
	repo := newFakeTicketRepo()
	seedTicket(t, repo, "user-1", "Desert Ridge", domain.TicketStatusOpen)
	eng := engine.New(engine.Config{}, zap.NewNop())
	svc := service.NewSnapshotService(repo, eng, nil, time.Second, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.EnsureFresh(ctx))
	assert.Equal(t, 1, repo.listCalls)
	assert.Len(t, svc.Snapshot(), 1)

	// Still fresh, no reload.
	require.NoError(t, svc.EnsureFresh(ctx))
	assert.Equal(t, 1, repo.listCalls)
}

func TestSnapshotInvalidatedByTicketEvents(t *testing.T) {
	repo := newFakeTicketRepo()
	seedTicket(t, repo, "user-1", "Desert Ridge", domain.TicketStatusOpen)
	eng := engine.New(engine.Config{}, zap.NewNop())
	svc := service.NewSnapshotService(repo, eng, nil, time.Second, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	svc.SubscribeInvalidation(dispatcher)
	ctx := context.Background()

	require.NoError(t, svc.EnsureFresh(ctx))
	seedTicket(t, repo, "user-2", "Mesa Flats", domain.TicketStatusOpen)

	// Without an event the snapshot stays as loaded.
	require.NoError(t, svc.EnsureFresh(ctx))
	assert.Len(t, svc.Snapshot(), 1)

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventTicketCreated}))
	require.NoError(t, svc.EnsureFresh(ctx))
	assert.Len(t, svc.Snapshot(), 2)
}

func TestStatsScopeIndependentOfActiveFilters(t *testing.T) {
	repo := newFakeTicketRepo()
	seedTicket(t, repo, "user-1", "Desert Ridge", domain.TicketStatusOpen)
	seedTicket(t, repo, "user-1", "Mesa Flats", domain.TicketStatusClosed)
	seedTicket(t, repo, "user-2", "Mesa Flats", domain.TicketStatusOpen)
	eng := engine.New(engine.Config{}, zap.NewNop())
	svc := service.NewSnapshotService(repo, eng, nil, time.Second, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, svc.EnsureFresh(ctx))

	user := &domain.User{ID: "user-1", Name: "Jordan Vega", Email: "jordan@solarco.example", Role: domain.RoleReporter}

	// A narrow filter over the user's tickets.
	state := engine.NewFilterState(engine.ScopeMine)
	state.Search = "desert"
	filtered := svc.FilteredTickets(user, state)
	require.Len(t, filtered, 1)

	// Stat cards aggregate the full scoped set, not the filtered subset.
	stats, err := svc.Stats(ctx, user, engine.ScopeMine)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Closed)

	all, err := svc.Stats(ctx, user, engine.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}
