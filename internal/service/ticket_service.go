package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/events"
	"github.com/spec-kit/solar-ticketing/internal/repository"
	apperrors "github.com/spec-kit/solar-ticketing/pkg/util"
)

// TicketService coordinates ticket workflows: creation, edits with
// audit recording, and status transitions.
type TicketService struct {
	tickets    repository.TicketRepository
	audits     repository.AuditRepository
	engine     *engine.Engine
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	AuditRepo  repository.AuditRepository
	Engine     *engine.Engine
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Category       domain.TicketCategory
	Priority       domain.TicketPriority
	SiteOutage     domain.SiteOutage
	SiteName       string
	ClientType     string
	Equipment      string
	Description    string
	Notes          string
	CaseNumber     string
	KWDown         *float64
	IssueStartTime *time.Time
	IssueEndTime   *time.Time
}

// TicketUpdateInput describes a partial edit. Nil fields are left
// untouched; Reason is carried into the audit entry.
type TicketUpdateInput struct {
	Category       *domain.TicketCategory
	Priority       *domain.TicketPriority
	SiteOutage     *domain.SiteOutage
	SiteName       *string
	Equipment      *string
	Description    *string
	Notes          *string
	CaseNumber     *string
	KWDown         *float64
	IssueStartTime *time.Time
	IssueEndTime   *time.Time
	Reason         string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		audits:     deps.AuditRepo,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket files a new ticket for a user.
func (s *TicketService) CreateTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if input.IssueStartTime != nil && input.IssueEndTime != nil && input.IssueEndTime.Before(*input.IssueStartTime) {
		return nil, apperrors.NewValidationError("issue end time precedes start time", nil)
	}

	ticket := &domain.Ticket{
		TicketNumber:   generateTicketNumber(),
		Category:       input.Category,
		Priority:       input.Priority,
		SiteOutage:     input.SiteOutage,
		Status:         domain.TicketStatusOpen,
		OwnerID:        user.ID,
		CreatorName:    user.Name,
		CreatorEmail:   user.Email,
		SiteName:       strings.TrimSpace(input.SiteName),
		ClientType:     strings.TrimSpace(input.ClientType),
		Equipment:      strings.TrimSpace(input.Equipment),
		Description:    strings.TrimSpace(input.Description),
		Notes:          strings.TrimSpace(input.Notes),
		CaseNumber:     strings.TrimSpace(input.CaseNumber),
		KWDown:         input.KWDown,
		IssueStartTime: input.IssueStartTime,
		IssueEndTime:   input.IssueEndTime,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.SiteOutage == "" {
		ticket.SiteOutage = domain.SiteOutageNo
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			SiteName:     ticket.SiteName,
			Category:     ticket.Category,
			Priority:     ticket.Priority,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a partial edit, recording a field-level audit
// entry for every changed field. A no-op edit without a reason is not
// persisted to the audit log.
func (s *TicketService) UpdateTicket(ctx context.Context, user *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	before, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canEdit(user, before) {
		return nil, apperrors.NewForbidden("not allowed to edit this ticket")
	}

	after := *before
	applyUpdate(&after, input)

	if strings.TrimSpace(after.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if after.IssueStartTime != nil && after.IssueEndTime != nil && after.IssueEndTime.Before(*after.IssueStartTime) {
		return nil, apperrors.NewValidationError("issue end time precedes start time", nil)
	}

	entry := s.engine.Diff(before, &after, user.ID, input.Reason)
	if len(entry.Changes) == 0 && input.Reason == "" {
		return before, nil
	}

	if err := s.tickets.Update(ctx, &after); err != nil {
		return nil, err
	}
	if err := s.audits.Append(ctx, &entry); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: after.ID,
		ActorID:  user.ID,
		Payload: events.TicketUpdatedPayload{
			TicketNumber:  after.TicketNumber,
			Changes:       entry.Changes,
			Reason:        input.Reason,
			ChangedFields: len(entry.Changes),
		},
	})
	return &after, nil
}

// UpdateStatus transitions a ticket, maintaining ClosedAt: set when
// entering a terminal status, cleared when leaving one.
func (s *TicketService) UpdateStatus(ctx context.Context, user *domain.User, ticketID string, newStatus domain.TicketStatus, reason string) (*domain.Ticket, error) {
	before, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canEdit(user, before) {
		return nil, apperrors.NewForbidden("not allowed to edit this ticket")
	}
	if !isKnownStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	after := *before
	oldStatus := after.DisplayStatus()
	after.Status = newStatus
	if s.engine.IsTerminal(newStatus) {
		if after.ClosedAt == nil {
			now := time.Now()
			after.ClosedAt = &now
			if after.IssueEndTime == nil {
				after.IssueEndTime = &now
			}
		}
	} else {
		after.ClosedAt = nil
	}

	entry := s.engine.Diff(before, &after, user.ID, reason)
	if len(entry.Changes) == 0 {
		return before, nil
	}

	if err := s.tickets.Update(ctx, &after); err != nil {
		return nil, err
	}
	if err := s.audits.Append(ctx, &entry); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: after.ID,
		ActorID:  user.ID,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: after.TicketNumber,
			OldStatus:    oldStatus,
			NewStatus:    newStatus,
		},
	})
	return &after, nil
}

// GetTicket fetches a ticket with its audit history and derived duration.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, string, []domain.AuditEntry, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, "", nil, err
	}
	history, err := s.audits.ListByTicket(ctx, ticket.ID, 100, 0)
	if err != nil {
		return nil, "", nil, err
	}
	return ticket, s.engine.ComputeDuration(ticket), history, nil
}

func canEdit(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil {
		return false
	}
	if user.Role == domain.RoleManager || user.Role == domain.RoleAdmin {
		return true
	}
	return engine.OwnedBy(ticket, user)
}

func isKnownStatus(status domain.TicketStatus) bool {
	switch status {
	case domain.TicketStatusOpen, domain.TicketStatusPending, domain.TicketStatusClosed, domain.TicketStatusResolved:
		return true
	}
	return false
}

func applyUpdate(ticket *domain.Ticket, input TicketUpdateInput) {
	if input.Category != nil {
		ticket.Category = *input.Category
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.SiteOutage != nil {
		ticket.SiteOutage = *input.SiteOutage
	}
	if input.SiteName != nil {
		ticket.SiteName = strings.TrimSpace(*input.SiteName)
	}
	if input.Equipment != nil {
		ticket.Equipment = strings.TrimSpace(*input.Equipment)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Notes != nil {
		ticket.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.CaseNumber != nil {
		ticket.CaseNumber = strings.TrimSpace(*input.CaseNumber)
	}
	if input.KWDown != nil {
		ticket.KWDown = input.KWDown
	}
	if input.IssueStartTime != nil {
		ticket.IssueStartTime = input.IssueStartTime
	}
	if input.IssueEndTime != nil {
		ticket.IssueEndTime = input.IssueEndTime
	}
}

func generateTicketNumber() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
