package service

import (
	"time"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

// ScoreBusinessImpact maps a customer-declared impact statement to a
// priority floor. The result can only raise the final priority, never
// lower it. An absent impact yields Medium.
func ScoreBusinessImpact(impact *domain.BusinessImpact, now time.Time) domain.Priority {
	if impact == nil {
		return domain.PriorityMedium
	}

	score := int(impact.BlockingLevel)
	if int(impact.ImpactScope) > score {
		score = int(impact.ImpactScope)
	}
	if impact.UrgentDeadline != nil && !impact.UrgentDeadline.After(now.Add(4*time.Hour)) && score < int(domain.PriorityHigh) {
		score = int(domain.PriorityHigh)
	}

	return domain.ClampPriority(score)
}
