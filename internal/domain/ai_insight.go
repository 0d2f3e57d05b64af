package domain

import (
	"strings"
	"time"
)

// InsightType tags what an AI insight describes.
type InsightType string

const (
	InsightCategorization InsightType = "CATEGORIZATION"
	InsightPriority       InsightType = "PRIORITY"
	InsightSentiment      InsightType = "SENTIMENT"
	InsightUnknown        InsightType = "UNKNOWN"
)

// ParseInsightType maps free text onto the closed insight type set.
func ParseInsightType(text string) InsightType {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "categorization":
		return InsightCategorization
	case "priority":
		return InsightPriority
	case "sentiment":
		return InsightSentiment
	default:
		return InsightUnknown
	}
}

// SignalSource records whether a signal came from the language model or the
// deterministic offline heuristics.
type SignalSource string

const (
	SourceAI      SignalSource = "ai"
	SourceOffline SignalSource = "offline"
)

// AIInsight is an append-only analysis record attached to a ticket.
type AIInsight struct {
	ID          string
	TicketID    string
	InsightType InsightType
	Confidence  float64
	Data        map[string]any
	CreatedAt   time.Time
}

// CategorizationData is the payload stored with a categorization insight.
type CategorizationData struct {
	Category CategoryKind `json:"category"`
	Source   SignalSource `json:"source"`
}

// Map flattens the payload for the JSONB data column. Keys mirror the
// json tags so stored rows and serialized payloads stay interchangeable.
func (d CategorizationData) Map() map[string]any {
	return map[string]any{
		"category": string(d.Category),
		"source":   string(d.Source),
	}
}

// PriorityData is the payload stored with a priority insight.
type PriorityData struct {
	Priority int          `json:"priority"`
	Source   SignalSource `json:"source"`
}

func (d PriorityData) Map() map[string]any {
	return map[string]any{
		"priority": d.Priority,
		"source":   string(d.Source),
	}
}

// SentimentData is the payload stored with a sentiment insight.
type SentimentData struct {
	Score  float64      `json:"score"`
	Label  string       `json:"label"`
	Source SignalSource `json:"source"`
}

func (d SentimentData) Map() map[string]any {
	return map[string]any{
		"score":  d.Score,
		"label":  d.Label,
		"source": string(d.Source),
	}
}

// AIAnalysis is the summary payload serialized onto the ticket itself.
type AIAnalysis struct {
	SuggestedCategory CategoryKind `json:"suggested_category"`
	SuggestedPriority int          `json:"suggested_priority"`
	SentimentScore    float64      `json:"sentiment_score"`
	Keywords          []string     `json:"keywords,omitempty"`
	AnalyzedAt        time.Time    `json:"analyzed_at"`
}

// SentimentLabel buckets a sentiment score the way agents read it.
func SentimentLabel(score float64) string {
	switch {
	case score < 0.3:
		return "Negative"
	case score < 0.7:
		return "Neutral"
	default:
		return "Positive"
	}
}
