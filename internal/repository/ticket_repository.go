package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Listing returns the
// full ordered collection: filtering, search and aggregation happen in
// memory against a snapshot, not in SQL.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByTicketNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, category, priority, site_outage, status, legacy_status,
	owner_user_id, creator_name, creator_email, site_name, client_type, equipment,
	description, notes, case_number, kw_down, total_duration,
	created_at, updated_at, issue_start_time, issue_end_time, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, category, priority, site_outage, status, legacy_status,
            owner_user_id, creator_name, creator_email, site_name, client_type, equipment,
            description, notes, case_number, kw_down, total_duration,
            issue_start_time, issue_end_time, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.Category,
		ticket.Priority,
		ticket.SiteOutage,
		ticket.Status,
		ticket.LegacyStatus,
		ticket.OwnerID,
		ticket.CreatorName,
		ticket.CreatorEmail,
		ticket.SiteName,
		ticket.ClientType,
		ticket.Equipment,
		ticket.Description,
		ticket.Notes,
		ticket.CaseNumber,
		ticket.KWDown,
		ticket.TotalDuration,
		ticket.IssueStartTime,
		ticket.IssueEndTime,
		ticket.ClosedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET category=$1, priority=$2, site_outage=$3, status=$4, legacy_status=$5,
            site_name=$6, client_type=$7, equipment=$8, description=$9, notes=$10,
            case_number=$11, kw_down=$12, total_duration=$13,
            issue_start_time=$14, issue_end_time=$15, closed_at=$16, updated_at=NOW()
        WHERE id=$17`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Category,
		ticket.Priority,
		ticket.SiteOutage,
		ticket.Status,
		ticket.LegacyStatus,
		ticket.SiteName,
		ticket.ClientType,
		ticket.Equipment,
		ticket.Description,
		ticket.Notes,
		ticket.CaseNumber,
		ticket.KWDown,
		ticket.TotalDuration,
		ticket.IssueStartTime,
		ticket.IssueEndTime,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByTicketNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_number=$1`, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Category,
		&ticket.Priority,
		&ticket.SiteOutage,
		&ticket.Status,
		&ticket.LegacyStatus,
		&ticket.OwnerID,
		&ticket.CreatorName,
		&ticket.CreatorEmail,
		&ticket.SiteName,
		&ticket.ClientType,
		&ticket.Equipment,
		&ticket.Description,
		&ticket.Notes,
		&ticket.CaseNumber,
		&ticket.KWDown,
		&ticket.TotalDuration,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.IssueStartTime,
		&ticket.IssueEndTime,
		&ticket.ClosedAt,
	)
}
