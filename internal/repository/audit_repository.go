package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// AuditRepository is append-only: entries are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO audit_entries (ticket_id, actor_id, reason, changes, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.ActorID,
		entry.Reason,
		changes,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, actor_id, reason, changes, created_at
        FROM audit_entries WHERE ticket_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var changes []byte
		if err := rows.Scan(&entry.ID, &entry.TicketID, &entry.ActorID, &entry.Reason, &changes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(changes, &entry.Changes); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
