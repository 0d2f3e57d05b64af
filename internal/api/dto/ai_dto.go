package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// CategorizeRequest previews analysis for draft ticket text.
type CategorizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks the required fields.
func (r *CategorizeRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Description) == "" {
		return util.Validation("title or description is required")
	}
	return nil
}

// CategorizeResponse is the analysis preview shape.
type CategorizeResponse struct {
	Category           string  `json:"category"`
	CategoryConfidence float64 `json:"category_confidence"`
	Priority           int     `json:"priority"`
	PriorityLabel      string  `json:"priority_label"`
	SentimentScore     float64 `json:"sentiment_score"`
	SentimentLabel     string  `json:"sentiment_label"`
	Source             string  `json:"source"`
}

// InsightResponse is the API shape of a stored analysis record.
type InsightResponse struct {
	ID          string         `json:"id"`
	InsightType string         `json:"insight_type"`
	Confidence  float64        `json:"confidence"`
	Data        map[string]any `json:"data"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FromInsights maps insight records.
func FromInsights(insights []domain.AIInsight) []InsightResponse {
	result := make([]InsightResponse, len(insights))
	for i, ins := range insights {
		result[i] = InsightResponse{
			ID:          ins.ID,
			InsightType: string(ins.InsightType),
			Confidence:  ins.Confidence,
			Data:        ins.Data,
			CreatedAt:   ins.CreatedAt,
		}
	}
	return result
}
