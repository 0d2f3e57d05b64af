package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.Priority
	CustomerID  *string
	AgentID     *string
	CategoryID  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, customer_id, assigned_agent_id, category_id, title, description,
               priority, status, created_at, updated_at, resolved_at, closed_at, due_date,
               first_response_deadline, resolution_deadline,
               assignment_method, assignment_reason, assigned_at,
               is_escalated, escalation_reason, escalated_at, escalated_by_id,
               business_impact_data, ai_analysis`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, customer_id, assigned_agent_id, category_id, title, description,
            priority, status, due_date, first_response_deadline, resolution_deadline,
            assignment_method, assignment_reason, assigned_at,
            is_escalated, escalation_reason, escalated_at, escalated_by_id,
            business_impact_data, ai_analysis)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.CustomerID,
		ticket.AssignedAgentID,
		ticket.CategoryID,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.DueDate,
		ticket.FirstResponseDeadline,
		ticket.ResolutionDeadline,
		ticket.AssignmentMethod,
		ticket.AssignmentReason,
		ticket.AssignedAt,
		ticket.IsEscalated,
		ticket.EscalationReason,
		ticket.EscalatedAt,
		ticket.EscalatedByID,
		ticket.BusinessImpactData,
		ticket.AIAnalysis,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assigned_agent_id=$1, category_id=$2, title=$3, description=$4,
            priority=$5, status=$6, resolved_at=$7, closed_at=$8, due_date=$9,
            first_response_deadline=$10, resolution_deadline=$11,
            assignment_method=$12, assignment_reason=$13, assigned_at=$14,
            is_escalated=$15, escalation_reason=$16, escalated_at=$17, escalated_by_id=$18,
            business_impact_data=$19, ai_analysis=$20, updated_at=NOW()
        WHERE id=$21`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.AssignedAgentID,
		ticket.CategoryID,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.DueDate,
		ticket.FirstResponseDeadline,
		ticket.ResolutionDeadline,
		ticket.AssignmentMethod,
		ticket.AssignmentReason,
		ticket.AssignedAt,
		ticket.IsEscalated,
		ticket.EscalationReason,
		ticket.EscalatedAt,
		ticket.EscalatedByID,
		ticket.BusinessImpactData,
		ticket.AIAnalysis,
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
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("assigned_agent_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
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

func (r *ticketRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE ticket_number LIKE $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.CustomerID,
		&ticket.AssignedAgentID,
		&ticket.CategoryID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.DueDate,
		&ticket.FirstResponseDeadline,
		&ticket.ResolutionDeadline,
		&ticket.AssignmentMethod,
		&ticket.AssignmentReason,
		&ticket.AssignedAt,
		&ticket.IsEscalated,
		&ticket.EscalationReason,
		&ticket.EscalatedAt,
		&ticket.EscalatedByID,
		&ticket.BusinessImpactData,
		&ticket.AIAnalysis,
	)
}
