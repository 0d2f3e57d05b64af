package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryKindTotal(t *testing.T) {
	tests := []struct {
		text string
		want CategoryKind
	}{
		{"Technical Issue", CategoryTechnicalIssue},
		{"  billing question ", CategoryBillingQuestion},
		{"BUG REPORT", CategoryBugReport},
		{"something else entirely", CategoryUnmatched},
		{"", CategoryUnmatched},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCategoryKind(tt.text))
	}
}

func TestParseInsightTypeTotal(t *testing.T) {
	assert.Equal(t, InsightCategorization, ParseInsightType("Categorization"))
	assert.Equal(t, InsightPriority, ParseInsightType(" priority "))
	assert.Equal(t, InsightSentiment, ParseInsightType("SENTIMENT"))
	assert.Equal(t, InsightUnknown, ParseInsightType("confidence"))
}

func TestSentimentLabelBuckets(t *testing.T) {
	assert.Equal(t, "Negative", SentimentLabel(0.0))
	assert.Equal(t, "Negative", SentimentLabel(0.29))
	assert.Equal(t, "Neutral", SentimentLabel(0.3))
	assert.Equal(t, "Neutral", SentimentLabel(0.69))
	assert.Equal(t, "Positive", SentimentLabel(0.7))
	assert.Equal(t, "Positive", SentimentLabel(1.0))
}

func TestInsightPayloadRoundTrip(t *testing.T) {
	payloads := []any{
		CategorizationData{Category: CategoryBillingQuestion, Source: SourceAI},
		PriorityData{Priority: 4, Source: SourceOffline},
		SentimentData{Score: 0.15, Label: "Negative", Source: SourceOffline},
	}
	for _, payload := range payloads {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		switch original := payload.(type) {
		case CategorizationData:
			var decoded CategorizationData
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, original, decoded)
		case PriorityData:
			var decoded PriorityData
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, original, decoded)
		case SentimentData:
			var decoded SentimentData
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, original, decoded)
		}
	}
}

// Map output must stay aligned with the json tags: insight rows are
// written via Map and read back as generic maps.
func TestInsightPayloadMapMatchesJSON(t *testing.T) {
	payloads := []struct {
		value   any
		flatten map[string]any
	}{
		{CategorizationData{Category: CategoryTechnicalIssue, Source: SourceOffline},
			CategorizationData{Category: CategoryTechnicalIssue, Source: SourceOffline}.Map()},
		{PriorityData{Priority: 3, Source: SourceAI},
			PriorityData{Priority: 3, Source: SourceAI}.Map()},
		{SentimentData{Score: 0.85, Label: "Positive", Source: SourceAI},
			SentimentData{Score: 0.85, Label: "Positive", Source: SourceAI}.Map()},
	}
	for _, tt := range payloads {
		raw, err := json.Marshal(tt.value)
		require.NoError(t, err)

		var viaTags map[string]any
		require.NoError(t, json.Unmarshal(raw, &viaTags))

		raw, err = json.Marshal(tt.flatten)
		require.NoError(t, err)

		var viaMap map[string]any
		require.NoError(t, json.Unmarshal(raw, &viaMap))

		assert.Equal(t, viaTags, viaMap)
	}
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, PriorityLow, ClampPriority(0))
	assert.Equal(t, PriorityMedium, ClampPriority(2))
	assert.Equal(t, PriorityCritical, ClampPriority(9))
}
