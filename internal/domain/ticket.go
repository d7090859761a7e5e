package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "Open"
	TicketStatusPending  TicketStatus = "Pending"
	TicketStatusClosed   TicketStatus = "Closed"
	TicketStatusResolved TicketStatus = "Resolved"
)

// TicketCategory enumerates issue classifications.
type TicketCategory string

const (
	CategoryProductionImpacting TicketCategory = "Production Impacting"
	CategoryCommunicationIssues TicketCategory = "Communication Issues"
	CategoryCannotConfirm       TicketCategory = "Cannot Confirm Production"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityUrgent   TicketPriority = "Urgent"
	TicketPriorityCritical TicketPriority = "Critical"
)

// SiteOutage enumerates whether the site lost production.
type SiteOutage string

const (
	SiteOutageNo      SiteOutage = "No"
	SiteOutageYes     SiteOutage = "Yes"
	SiteOutagePartial SiteOutage = "Partial"
)

// Ticket is the aggregate for a reported equipment or site issue.
type Ticket struct {
	ID           string
	TicketNumber string
	Category     TicketCategory
	Priority     TicketPriority
	SiteOutage   SiteOutage
	Status       TicketStatus
	// LegacyStatus mirrors upstream feeds that populate a secondary
	// status column instead of the primary one.
	LegacyStatus TicketStatus
	OwnerID      string
	CreatorName  string
	CreatorEmail string
	SiteName     string
	ClientType   string
	Equipment    string
	Description  string
	Notes        string
	CaseNumber   string
	KWDown       *float64
	// TotalDuration, when set, is an authoritative precomputed duration
	// string supplied by a reporting collaborator.
	TotalDuration  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	IssueStartTime *time.Time
	IssueEndTime   *time.Time
	ClosedAt       *time.Time
}

// DisplayStatus returns the primary status, falling back to the legacy
// field when the primary is absent.
func (t *Ticket) DisplayStatus() TicketStatus {
	if t.Status != "" {
		return t.Status
	}
	return t.LegacyStatus
}
