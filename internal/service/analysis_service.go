package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/ai"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/observability"
	"github.com/spec-kit/support-ticket-service/internal/repository"
)

// Fixed confidence levels per signal. The offline values are deliberately
// lower than the model-backed ones to reflect reduced trust.
const (
	aiCategorizationConfidence      = 0.85
	aiPriorityConfidence            = 0.78
	aiSentimentConfidence           = 0.92
	offlineCategorizationConfidence = 0.60
	offlinePriorityConfidence       = 0.55
	offlineSentimentConfidence      = 0.70
)

// AnalysisResult carries the three analysis signals with their source and
// confidence, plus the merged final priority.
type AnalysisResult struct {
	Category           domain.CategoryKind
	CategoryConfidence float64
	CategorySource     domain.SignalSource

	// SuggestedPriority is the raw content signal; Priority is the final
	// value after merging with the business-impact floor.
	SuggestedPriority  domain.Priority
	Priority           domain.Priority
	PriorityConfidence float64
	PrioritySource     domain.SignalSource

	Sentiment           float64
	SentimentConfidence float64
	SentimentSource     domain.SignalSource

	Keywords   []string
	AnalyzedAt time.Time
}

// AnalysisServiceDeps bundles the analysis service dependencies.
type AnalysisServiceDeps struct {
	Client            ai.Client
	Categories        repository.CategoryRepository
	Insights          repository.AIInsightRepository
	Metrics           *observability.Metrics
	Logger            *zap.Logger
	CategoryThreshold float64
}

// AnalysisService runs category, priority and sentiment analysis with
// offline fallback, persists insight records and stamps SLA deadlines.
type AnalysisService struct {
	client            ai.Client
	categories        repository.CategoryRepository
	insights          repository.AIInsightRepository
	metrics           *observability.Metrics
	logger            *zap.Logger
	categoryThreshold float64
	now               func() time.Time
}

// NewAnalysisService constructs the service.
func NewAnalysisService(deps AnalysisServiceDeps) *AnalysisService {
	return &AnalysisService{
		client:            deps.Client,
		categories:        deps.Categories,
		insights:          deps.Insights,
		metrics:           deps.Metrics,
		logger:            deps.Logger,
		categoryThreshold: deps.CategoryThreshold,
		now:               time.Now,
	}
}

// Analyze produces the three signals concurrently. Each signal falls back
// to the offline heuristics independently when the model yields nothing.
func (s *AnalysisService) Analyze(ctx context.Context, title, description string, impact *domain.BusinessImpact) AnalysisResult {
	result := AnalysisResult{AnalyzedAt: s.now().UTC()}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Category, result.CategoryConfidence, result.CategorySource = s.categorize(ctx, title, description)
	}()
	go func() {
		defer wg.Done()
		result.SuggestedPriority, result.PriorityConfidence, result.PrioritySource = s.prioritize(ctx, title, description, impact)
	}()
	go func() {
		defer wg.Done()
		result.Sentiment, result.SentimentConfidence, result.SentimentSource = s.sentiment(ctx, title+" "+description)
	}()
	wg.Wait()

	// Business impact is a floor on the final priority, never a ceiling.
	floor := ScoreBusinessImpact(impact, s.now())
	result.Priority = result.SuggestedPriority
	if floor > result.Priority {
		result.Priority = floor
	}

	result.Keywords = ai.ExtractKeywords(title, description)
	return result
}

// Process analyzes the ticket, applies category, final priority and SLA
// deadlines to it, and persists the three insight records. The caller
// persists the ticket itself.
func (s *AnalysisService) Process(ctx context.Context, ticket *domain.Ticket, impact *domain.BusinessImpact) (AnalysisResult, error) {
	result := s.Analyze(ctx, ticket.Title, ticket.Description, impact)

	s.applyCategory(ctx, ticket, result)
	ticket.Priority = result.Priority
	ApplySLA(ticket, s.now())

	summary := domain.AIAnalysis{
		SuggestedCategory: result.Category,
		SuggestedPriority: int(result.Priority),
		SentimentScore:    result.Sentiment,
		Keywords:          result.Keywords,
		AnalyzedAt:        result.AnalyzedAt,
	}
	if raw, err := json.Marshal(summary); err == nil {
		encoded := string(raw)
		ticket.AIAnalysis = &encoded
	}

	if err := s.insights.CreateBatch(ctx, BuildInsights(ticket.ID, result)); err != nil {
		return result, err
	}
	return result, nil
}

// ListInsights returns the stored analysis records for a ticket.
func (s *AnalysisService) ListInsights(ctx context.Context, ticketID string) ([]domain.AIInsight, error) {
	return s.insights.ListByTicket(ctx, ticketID)
}

// BuildInsights materializes the append-only insight records for one
// analysis pass.
func BuildInsights(ticketID string, result AnalysisResult) []domain.AIInsight {
	return []domain.AIInsight{
		{
			TicketID:    ticketID,
			InsightType: domain.InsightCategorization,
			Confidence:  result.CategoryConfidence,
			Data: domain.CategorizationData{
				Category: result.Category,
				Source:   result.CategorySource,
			}.Map(),
		},
		{
			TicketID:    ticketID,
			InsightType: domain.InsightPriority,
			Confidence:  result.PriorityConfidence,
			Data: domain.PriorityData{
				Priority: int(result.Priority),
				Source:   result.PrioritySource,
			}.Map(),
		},
		{
			TicketID:    ticketID,
			InsightType: domain.InsightSentiment,
			Confidence:  result.SentimentConfidence,
			Data: domain.SentimentData{
				Score:  result.Sentiment,
				Label:  domain.SentimentLabel(result.Sentiment),
				Source: result.SentimentSource,
			}.Map(),
		},
	}
}

// applyCategory sets the ticket category only when none was given and the
// signal clears the confidence threshold.
func (s *AnalysisService) applyCategory(ctx context.Context, ticket *domain.Ticket, result AnalysisResult) {
	if ticket.CategoryID != nil {
		return
	}
	if result.Category == domain.CategoryUnmatched || result.CategoryConfidence <= s.categoryThreshold {
		return
	}

	category, err := s.categories.GetByName(ctx, string(result.Category))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("category lookup failed", zap.String("category", string(result.Category)), zap.Error(err))
		}
		return
	}
	ticket.CategoryID = &category.ID
}

func (s *AnalysisService) categorize(ctx context.Context, title, description string) (domain.CategoryKind, float64, domain.SignalSource) {
	if text, ok := s.client.CompleteText(ctx, ai.CategorizePrompt(title, description)); ok {
		if kind := domain.ParseCategoryKind(text); kind != domain.CategoryUnmatched {
			return kind, aiCategorizationConfidence, domain.SourceAI
		}
		s.logger.Warn("model returned unknown category", zap.String("text", text))
	}
	s.recordFallback("categorization")
	return ai.CategorizeOffline(title, description), offlineCategorizationConfidence, domain.SourceOffline
}

func (s *AnalysisService) prioritize(ctx context.Context, title, description string, impact *domain.BusinessImpact) (domain.Priority, float64, domain.SignalSource) {
	if n, ok := s.client.CompleteInt(ctx, ai.PriorityPrompt(title, description, impact), 1, 4); ok {
		return domain.ClampPriority(n), aiPriorityConfidence, domain.SourceAI
	}
	s.recordFallback("priority")
	return ai.PriorityOffline(title, description), offlinePriorityConfidence, domain.SourceOffline
}

func (s *AnalysisService) sentiment(ctx context.Context, text string) (float64, float64, domain.SignalSource) {
	if score, ok := s.client.CompleteFloat(ctx, ai.SentimentPrompt(text), 0.0, 1.0); ok {
		return score, aiSentimentConfidence, domain.SourceAI
	}
	s.recordFallback("sentiment")
	return ai.SentimentOffline(text), offlineSentimentConfidence, domain.SourceOffline
}

// recordFallback distinguishes an intentional offline path (no model
// configured) from a degraded one (model configured but failed).
func (s *AnalysisService) recordFallback(signal string) {
	if s.client.Available() {
		s.metrics.AIFallbacks.Add(1)
		s.logger.Warn("model unavailable, using offline heuristics", zap.String("signal", signal))
		return
	}
	s.logger.Debug("model not configured, using offline heuristics", zap.String("signal", signal))
}
