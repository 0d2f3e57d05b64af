package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-ticket-service/internal/api/dto"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/service"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// AIHandler exposes analysis previews and stored insights.
type AIHandler struct {
	analysis *service.AnalysisService
}

// NewAIHandler constructs the handler.
func NewAIHandler(analysis *service.AnalysisService) *AIHandler {
	return &AIHandler{analysis: analysis}
}

// Categorize handles POST /ai/categorize. It analyzes draft ticket text
// without persisting anything.
func (h *AIHandler) Categorize(c *fiber.Ctx) error {
	var req dto.CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result := h.analysis.Analyze(c.Context(), req.Title, req.Description, nil)
	return c.JSON(dto.CategorizeResponse{
		Category:           string(result.Category),
		CategoryConfidence: result.CategoryConfidence,
		Priority:           int(result.Priority),
		PriorityLabel:      result.Priority.String(),
		SentimentScore:     result.Sentiment,
		SentimentLabel:     domain.SentimentLabel(result.Sentiment),
		Source:             string(result.CategorySource),
	})
}

// Insights handles GET /ai/insights/:ticketId.
func (h *AIHandler) Insights(c *fiber.Ctx) error {
	insights, err := h.analysis.ListInsights(c.Context(), c.Params("ticketId"))
	if err != nil {
		return util.ToDomainError(err, "could not load insights")
	}
	return c.JSON(fiber.Map{"insights": dto.FromInsights(insights)})
}
