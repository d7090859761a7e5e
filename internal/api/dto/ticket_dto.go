package dto

import (
	"time"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// CreateTicketRequest payload for filing a ticket.
type CreateTicketRequest struct {
	Category       domain.TicketCategory `json:"category"`
	Priority       domain.TicketPriority `json:"priority"`
	SiteOutage     domain.SiteOutage     `json:"site_outage"`
	SiteName       string                `json:"site_name"`
	ClientType     string                `json:"client_type"`
	Equipment      string                `json:"equipment"`
	Description    string                `json:"description"`
	Notes          string                `json:"notes"`
	CaseNumber     string                `json:"case_number"`
	KWDown         *float64              `json:"kw_down"`
	IssueStartTime *time.Time            `json:"issue_start_time"`
	IssueEndTime   *time.Time            `json:"issue_end_time"`
}

// UpdateTicketRequest payload for a partial edit. Omitted fields are
// left untouched.
type UpdateTicketRequest struct {
	Category       *domain.TicketCategory `json:"category"`
	Priority       *domain.TicketPriority `json:"priority"`
	SiteOutage     *domain.SiteOutage     `json:"site_outage"`
	SiteName       *string                `json:"site_name"`
	Equipment      *string                `json:"equipment"`
	Description    *string                `json:"description"`
	Notes          *string                `json:"notes"`
	CaseNumber     *string                `json:"case_number"`
	KWDown         *float64               `json:"kw_down"`
	IssueStartTime *time.Time             `json:"issue_start_time"`
	IssueEndTime   *time.Time             `json:"issue_end_time"`
	Reason         string                 `json:"reason"`
}

// UpdateStatusRequest payload for a status transition.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
	Reason string              `json:"reason"`
}

// TicketSummary is the list representation of a ticket.
type TicketSummary struct {
	ID           string                `json:"id"`
	TicketNumber string                `json:"ticket_number"`
	Category     domain.TicketCategory `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	SiteOutage   domain.SiteOutage     `json:"site_outage"`
	Status       domain.TicketStatus   `json:"status"`
	SiteName     string                `json:"site_name"`
	Equipment    string                `json:"equipment"`
	Requestor    string                `json:"requestor"`
	Duration     string                `json:"duration"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse is the full representation with audit history.
type TicketDetailResponse struct {
	TicketSummary
	ClientType     string               `json:"client_type"`
	Description    string               `json:"description"`
	Notes          string               `json:"notes"`
	CaseNumber     string               `json:"case_number"`
	KWDown         *float64             `json:"kw_down"`
	IssueStartTime *time.Time           `json:"issue_start_time"`
	IssueEndTime   *time.Time           `json:"issue_end_time"`
	ClosedAt       *time.Time           `json:"closed_at"`
	History        []AuditEntryResponse `json:"history"`
}

// AuditEntryResponse is one audit log record.
type AuditEntryResponse struct {
	ID        string                        `json:"id"`
	ActorID   string                        `json:"actor_id"`
	Reason    string                        `json:"reason,omitempty"`
	Changes   map[string]domain.FieldChange `json:"changes"`
	CreatedAt time.Time                     `json:"created_at"`
}
