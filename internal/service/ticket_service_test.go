package service_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/events"
	"github.com/spec-kit/solar-ticketing/internal/service"
	apperrors "github.com/spec-kit/solar-ticketing/pkg/util"
)

type fakeTicketRepo struct {
	tickets   map[string]domain.Ticket
	order     []string
	seq       int
	updates   int
	listCalls int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = "ticket-" + strconv.Itoa(r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return apperrors.NewNotFound("ticket", nil)
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	r.updates++
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) GetByTicketNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			t := ticket
			return &t, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", nil)
}

func (r *fakeTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	r.listCalls++
	out := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tickets[id])
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []domain.AuditEntry
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

type ticketFixture struct {
	svc        *service.TicketService
	tickets    *fakeTicketRepo
	audits     *fakeAuditRepo
	dispatcher *capturingDispatcher
}

func newTicketFixture(t *testing.T) ticketFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	audits := &fakeAuditRepo{}
	dispatcher := &capturingDispatcher{}
	eng := engine.New(engine.Config{}, zap.NewNop())
	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: tickets,
		AuditRepo:  audits,
		Engine:     eng,
		Dispatcher: dispatcher,
	})
	return ticketFixture{svc: svc, tickets: tickets, audits: audits, dispatcher: dispatcher}
}

func reporter() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Name:  "Jordan Vega",
		Email: "jordan@solarco.example",
		Role:  domain.RoleReporter,
	}
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newTicketFixture(t)

	ticket, err := f.svc.CreateTicket(context.Background(), reporter(), service.TicketCreateInput{
		Category:    domain.CategoryProductionImpacting,
		SiteName:    "Desert Ridge",
		Description: "Inverter 3 offline",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "TKT-"), "ticket number %q", ticket.TicketNumber)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, domain.SiteOutageNo, ticket.SiteOutage)
	assert.Equal(t, "user-1", ticket.OwnerID)
	assert.Equal(t, "Jordan Vega", ticket.CreatorName)

	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, f.dispatcher.published[0].Type)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTicket(ctx, reporter(), service.TicketCreateInput{Description: "   "})
	require.Error(t, err)

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = f.svc.CreateTicket(ctx, reporter(), service.TicketCreateInput{
		Description:    "bad range",
		IssueStartTime: &start,
		IssueEndTime:   &end,
	})
	require.Error(t, err)
	assert.Empty(t, f.dispatcher.published)
}

func TestUpdateTicketRecordsSparseAudit(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	user := reporter()

	ticket, err := f.svc.CreateTicket(ctx, user, service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	high := domain.TicketPriorityHigh
	updated, err := f.svc.UpdateTicket(ctx, user, ticket.ID, service.TicketUpdateInput{
		Priority: &high,
		Reason:   "escalated by NOC",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)

	require.Len(t, f.audits.entries, 1)
	entry := f.audits.entries[0]
	assert.Equal(t, "escalated by NOC", entry.Reason)
	require.Len(t, entry.Changes, 1)
	change, ok := entry.Changes[engine.FieldPriority]
	require.True(t, ok)
	assert.Equal(t, "Medium", change.Old)
	assert.Equal(t, "High", change.New)
}

func TestUpdateTicketNoopWithoutReasonSkipsPersist(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	user := reporter()

	ticket, err := f.svc.CreateTicket(ctx, user, service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	_, err = f.svc.UpdateTicket(ctx, user, ticket.ID, service.TicketUpdateInput{})
	require.NoError(t, err)
	assert.Empty(t, f.audits.entries)
	assert.Zero(t, f.tickets.updates)

	// An explicit reason makes even a no-op edit worth recording.
	_, err = f.svc.UpdateTicket(ctx, user, ticket.ID, service.TicketUpdateInput{Reason: "reviewed, no changes needed"})
	require.NoError(t, err)
	require.Len(t, f.audits.entries, 1)
	assert.Empty(t, f.audits.entries[0].Changes)
}

func TestUpdateTicketRejectsClearedDescription(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	user := reporter()

	ticket, err := f.svc.CreateTicket(ctx, user, service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	empty := "   "
	_, err = f.svc.UpdateTicket(ctx, user, ticket.ID, service.TicketUpdateInput{Description: &empty})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Empty(t, f.audits.entries)

	got, _, _, err := f.svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inverter 3 offline", got.Description)
}

func TestUpdateTicketForbiddenForOtherReporter(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, reporter(), service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	stranger := &domain.User{ID: "user-2", Name: "Sam Oduya", Email: "sam@solarco.example", Role: domain.RoleReporter}
	notes := "drive-by edit"
	_, err = f.svc.UpdateTicket(ctx, stranger, ticket.ID, service.TicketUpdateInput{Notes: &notes})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 403, domainErr.HTTPStatus)

	// Managers bypass ownership.
	manager := &domain.User{ID: "user-3", Name: "Priya Nair", Email: "priya@solarco.example", Role: domain.RoleManager}
	_, err = f.svc.UpdateTicket(ctx, manager, ticket.ID, service.TicketUpdateInput{Notes: &notes})
	require.NoError(t, err)
}

func TestUpdateStatusMaintainsClosedAt(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	user := reporter()

	ticket, err := f.svc.CreateTicket(ctx, user, service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	closed, err := f.svc.UpdateStatus(ctx, user, ticket.ID, domain.TicketStatusClosed, "fixed on site")
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.IssueEndTime)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)

	reopened, err := f.svc.UpdateStatus(ctx, user, ticket.ID, domain.TicketStatusOpen, "issue recurred")
	require.NoError(t, err)
	assert.Nil(t, reopened.ClosedAt)
	assert.Equal(t, domain.TicketStatusOpen, reopened.Status)

	var statusEvents int
	for _, event := range f.dispatcher.published {
		if event.Type == events.EventTicketStatusChanged {
			statusEvents++
		}
	}
	assert.Equal(t, 2, statusEvents)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	user := reporter()

	ticket, err := f.svc.CreateTicket(ctx, user, service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, user, ticket.ID, domain.TicketStatus("Archived"), "")
	require.Error(t, err)
}

func TestGetTicketReturnsHistoryAndDuration(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	user := reporter()

	ticket, err := f.svc.CreateTicket(ctx, user, service.TicketCreateInput{Description: "Inverter 3 offline"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, user, ticket.ID, domain.TicketStatusClosed, "fixed")
	require.NoError(t, err)

	got, duration, history, err := f.svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Len(t, history, 1)
	// No issue start time on the ticket, so the derived duration is unavailable.
	assert.Equal(t, engine.NotAvailable, duration)
}
