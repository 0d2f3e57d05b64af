package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

// AIInsightRepository stores append-only analysis records.
type AIInsightRepository interface {
	CreateBatch(ctx context.Context, insights []domain.AIInsight) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AIInsight, error)
}

type aiInsightRepository struct {
	pool *pgxpool.Pool
}

// NewAIInsightRepository builds repository.
func NewAIInsightRepository(pool *pgxpool.Pool) AIInsightRepository {
	return &aiInsightRepository{pool: pool}
}

func (r *aiInsightRepository) CreateBatch(ctx context.Context, insights []domain.AIInsight) error {
	const query = `
        INSERT INTO ai_insights (ticket_id, insight_type, confidence, data)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	for i := range insights {
		if err := r.pool.QueryRow(ctx, query,
			insights[i].TicketID,
			insights[i].InsightType,
			insights[i].Confidence,
			insights[i].Data,
		).Scan(&insights[i].ID, &insights[i].CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *aiInsightRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AIInsight, error) {
	const query = `
        SELECT id, ticket_id, insight_type, confidence, data, created_at
        FROM ai_insights WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AIInsight
	for rows.Next() {
		var insight domain.AIInsight
		var insightType string
		if err := rows.Scan(
			&insight.ID,
			&insight.TicketID,
			&insightType,
			&insight.Confidence,
			&insight.Data,
			&insight.CreatedAt,
		); err != nil {
			return nil, err
		}
		// stored text maps onto the closed type set, never an open string
		insight.InsightType = domain.ParseInsightType(insightType)
		result = append(result, insight)
	}
	return result, rows.Err()
}
