package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

func TestScoreBusinessImpactAbsent(t *testing.T) {
	assert.Equal(t, domain.PriorityMedium, ScoreBusinessImpact(nil, time.Now()))
}

func TestScoreBusinessImpactMaxOfDimensions(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		blocking domain.BlockingLevel
		scope    domain.ImpactScope
		want     domain.Priority
	}{
		{"both minimal", domain.BlockingNotBlocking, domain.ScopeIndividual, domain.PriorityLow},
		{"blocking dominates", domain.BlockingSystemDown, domain.ScopeIndividual, domain.PriorityCritical},
		{"scope dominates", domain.BlockingNotBlocking, domain.ScopeCompany, domain.PriorityCritical},
		{"middle", domain.BlockingPartiallyBlocking, domain.ScopeDepartment, domain.PriorityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := &domain.BusinessImpact{BlockingLevel: tt.blocking, ImpactScope: tt.scope}
			assert.Equal(t, tt.want, ScoreBusinessImpact(impact, now))
		})
	}
}

func TestScoreBusinessImpactMonotonic(t *testing.T) {
	now := time.Now()
	for scope := domain.ScopeIndividual; scope <= domain.ScopeCompany; scope++ {
		prev := domain.Priority(0)
		for blocking := domain.BlockingNotBlocking; blocking <= domain.BlockingSystemDown; blocking++ {
			got := ScoreBusinessImpact(&domain.BusinessImpact{BlockingLevel: blocking, ImpactScope: scope}, now)
			assert.GreaterOrEqual(t, got, prev, "raising blocking level must not lower the score")
			prev = got
		}
	}
	for blocking := domain.BlockingNotBlocking; blocking <= domain.BlockingSystemDown; blocking++ {
		prev := domain.Priority(0)
		for scope := domain.ScopeIndividual; scope <= domain.ScopeCompany; scope++ {
			got := ScoreBusinessImpact(&domain.BusinessImpact{BlockingLevel: blocking, ImpactScope: scope}, now)
			assert.GreaterOrEqual(t, got, prev, "widening scope must not lower the score")
			prev = got
		}
	}
}

func TestScoreBusinessImpactDeadlineFloor(t *testing.T) {
	now := time.Now()
	soon := now.Add(time.Hour)
	later := now.Add(48 * time.Hour)

	impact := &domain.BusinessImpact{
		BlockingLevel:  domain.BlockingNotBlocking,
		ImpactScope:    domain.ScopeIndividual,
		UrgentDeadline: &soon,
	}
	assert.Equal(t, domain.PriorityHigh, ScoreBusinessImpact(impact, now),
		"a deadline within four hours floors the score at High")

	impact.UrgentDeadline = &later
	assert.Equal(t, domain.PriorityLow, ScoreBusinessImpact(impact, now))

	// the deadline bonus never lowers an already higher score
	impact.UrgentDeadline = &soon
	impact.BlockingLevel = domain.BlockingSystemDown
	assert.Equal(t, domain.PriorityCritical, ScoreBusinessImpact(impact, now))
}
