package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/request-portal/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Visibility at this layer
// is the coarse analyst/own-only fork; filter composition happens in the
// service on top of the returned set.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListForCaller(ctx context.Context, callerID int64, isAnalyst bool) ([]domain.Ticket, error)
	Count(ctx context.Context) (int64, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.ticket_type, t.category, t.priority, t.status,
               t.business_justification, t.expected_delivery, t.data_sources, t.technical_requirements,
               t.created_by_id, t.assigned_to_id, t.created_at, t.updated_at,
               t.estimated_hours, t.actual_hours,
               COALESCE(u1.full_name, ''), COALESCE(u2.full_name, '')
        FROM tickets t
        LEFT JOIN users u1 ON t.created_by_id = u1.id
        LEFT JOIN users u2 ON t.assigned_to_id = u2.id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, ticket_type, category, priority, status,
                             business_justification, expected_delivery, data_sources,
                             technical_requirements, created_by_id, estimated_hours)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Type,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.BusinessJustification,
		ticket.ExpectedDelivery,
		ticket.DataSources,
		ticket.TechnicalRequirements,
		ticket.CreatedByID,
		ticket.EstimatedHours,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, ticket_type=$3, category=$4, priority=$5,
            status=$6, business_justification=$7, expected_delivery=$8, data_sources=$9,
            technical_requirements=$10, assigned_to_id=$11, estimated_hours=$12, actual_hours=$13,
            updated_at=NOW()
        WHERE id=$14
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Type,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.BusinessJustification,
		ticket.ExpectedDelivery,
		ticket.DataSources,
		ticket.TechnicalRequirements,
		ticket.AssignedToID,
		ticket.EstimatedHours,
		ticket.ActualHours,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id)
	return scanTicket(row)
}

func (r *ticketRepository) ListForCaller(ctx context.Context, callerID int64, isAnalyst bool) ([]domain.Ticket, error) {
	query := ticketSelect + ` ORDER BY t.created_at DESC, t.id DESC`
	args := []any{}
	if !isAnalyst {
		query = ticketSelect + ` WHERE t.created_by_id=$1 ORDER BY t.created_at DESC, t.id DESC`
		args = append(args, callerID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		ByType:     make(map[domain.TicketType]int64),
		ByPriority: make(map[domain.TicketPriority]int64),
	}

	const countQuery = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status=$1),
               COUNT(*) FILTER (WHERE status=$2),
               COUNT(*) FILTER (WHERE status=$3)
        FROM tickets`
	if err := r.pool.QueryRow(ctx, countQuery,
		domain.TicketStatusNew,
		domain.TicketStatusInProgress,
		domain.TicketStatusDone,
	).Scan(&stats.Total, &stats.New, &stats.InProgress, &stats.Completed); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx, `SELECT ticket_type, COUNT(*) FROM tickets GROUP BY ticket_type`, func(key string, count int64) {
		stats.ByType[domain.TicketType(key)] = count
	}); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`, func(key string, count int64) {
		stats.ByPriority[domain.TicketPriority(key)] = count
	}); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *ticketRepository) groupCount(ctx context.Context, query string, collect func(key string, count int64)) error {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		collect(key, count)
	}
	return rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Type,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.BusinessJustification,
		&ticket.ExpectedDelivery,
		&ticket.DataSources,
		&ticket.TechnicalRequirements,
		&ticket.CreatedByID,
		&ticket.AssignedToID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.EstimatedHours,
		&ticket.ActualHours,
		&ticket.CreatedByName,
		&ticket.AssignedToName,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
