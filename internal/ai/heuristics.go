package ai

import (
	"strings"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

// Deterministic keyword heuristics used whenever the language model is
// unavailable. All functions are pure so they double as test oracles.

var categoryKeywordGroups = []struct {
	kind     domain.CategoryKind
	keywords []string
}{
	{domain.CategoryAccountProblem, []string{"account", "login", "password", "access"}},
	{domain.CategoryBillingQuestion, []string{"billing", "payment", "invoice", "charge"}},
	{domain.CategoryBugReport, []string{"crash", "error", "bug", "broken"}},
	{domain.CategoryFeatureRequest, []string{"feature", "enhancement", "request", "improve"}},
	{domain.CategoryTechnicalIssue, []string{"technical", "system", "server", "database"}},
}

var (
	criticalKeywords = []string{"down", "critical", "system failure", "can't work", "production", "all users"}
	urgentKeywords   = []string{"urgent", "asap", "blocking", "frustrated", "angry", "!!!"}
	lowKeywords      = []string{"when possible", "nice to have", "suggestion", "minor"}
)

var sentimentWeights = []struct {
	keywords []string
	delta    float64
}{
	{[]string{"angry", "furious"}, -0.3},
	{[]string{"frustrated", "annoyed"}, -0.2},
	{[]string{"disappointed", "upset"}, -0.15},
	{[]string{"terrible", "awful"}, -0.2},
	{[]string{"unacceptable", "ridiculous"}, -0.25},
	{[]string{"thank", "appreciate"}, 0.2},
	{[]string{"great", "excellent"}, 0.2},
	{[]string{"pleased", "satisfied"}, 0.15},
	{[]string{"happy", "glad"}, 0.1},
	{[]string{"urgent", "asap"}, -0.1},
	{[]string{"immediately", "critical"}, -0.15},
	{[]string{"down", "outage", "system failure"}, -0.15},
	{[]string{"!!!"}, -0.1},
}

// CategorizeOffline picks a category by keyword groups; the first matching
// group wins, checked in fixed order.
func CategorizeOffline(title, description string) domain.CategoryKind {
	content := strings.ToLower(title + " " + description)
	for _, group := range categoryKeywordGroups {
		if containsAny(content, group.keywords) {
			return group.kind
		}
	}
	return domain.CategoryGeneralInquiry
}

// PriorityOffline derives urgency from keyword buckets, checked in fixed
// order from most to least severe.
func PriorityOffline(title, description string) domain.Priority {
	content := strings.ToLower(title + " " + description)
	if containsAny(content, criticalKeywords) {
		return domain.PriorityCritical
	}
	if containsAny(content, urgentKeywords) {
		return domain.PriorityHigh
	}
	if containsAny(content, lowKeywords) {
		return domain.PriorityLow
	}
	return domain.PriorityMedium
}

// SentimentOffline scores emotional tone in [0,1], starting neutral at 0.5.
// Unlike category and priority matching, every matching weight applies.
// Outage language and stacked exclamation marks count as urgency penalties
// so a reported outage never reads as neutral.
func SentimentOffline(text string) float64 {
	content := strings.ToLower(text)
	score := 0.5
	for _, w := range sentimentWeights {
		if containsAny(content, w.keywords) {
			score += w.delta
		}
	}
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// SuggestAgentOffline returns the agent with the lowest in-progress
// workload; ties keep the earliest roster entry. Returns -1 for an empty
// roster.
func SuggestAgentOffline(agents []domain.User) int {
	best := -1
	for i := range agents {
		if best == -1 || agents[i].Workload < agents[best].Workload {
			best = i
		}
	}
	return best
}

// ExtractKeywords collects the urgency indicators present in the text for
// audit storage. The result never feeds back into scoring.
func ExtractKeywords(title, description string) []string {
	content := strings.ToLower(title + " " + description)
	var matched []string
	for _, list := range [][]string{criticalKeywords, urgentKeywords, lowKeywords} {
		for _, kw := range list {
			if strings.Contains(content, kw) {
				matched = append(matched, kw)
			}
		}
	}
	return matched
}

func containsAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
