package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

func TestApplySLA(t *testing.T) {
	now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		priority      domain.Priority
		firstResponse time.Duration
		resolution    time.Duration
	}{
		{domain.PriorityCritical, 1 * time.Hour, 4 * time.Hour},
		{domain.PriorityHigh, 4 * time.Hour, 24 * time.Hour},
		{domain.PriorityMedium, 24 * time.Hour, 72 * time.Hour},
		{domain.PriorityLow, 48 * time.Hour, 168 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.priority.String(), func(t *testing.T) {
			ticket := &domain.Ticket{Priority: tt.priority}
			ApplySLA(ticket, now)

			require.NotNil(t, ticket.FirstResponseDeadline)
			require.NotNil(t, ticket.ResolutionDeadline)
			require.NotNil(t, ticket.DueDate)
			assert.Equal(t, now.Add(tt.firstResponse), *ticket.FirstResponseDeadline)
			assert.Equal(t, now.Add(tt.resolution), *ticket.ResolutionDeadline)
			assert.Equal(t, *ticket.ResolutionDeadline, *ticket.DueDate)
		})
	}
}

func TestApplySLAInvalidPriorityDefaultsToMedium(t *testing.T) {
	now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Priority: 0}
	ApplySLA(ticket, now)

	require.NotNil(t, ticket.FirstResponseDeadline)
	assert.Equal(t, now.Add(24*time.Hour), *ticket.FirstResponseDeadline)
}
