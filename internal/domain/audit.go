package domain

import "time"

// FieldChange records the before and after value of a single field.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// AuditEntry is an immutable, sparse field-diff record created on every
// ticket update. Entries are append-only; there is no update or delete.
type AuditEntry struct {
	ID        string
	TicketID  string
	ActorID   string
	Reason    string
	Changes   map[string]FieldChange
	CreatedAt time.Time
}
