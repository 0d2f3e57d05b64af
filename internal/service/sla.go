package service

import (
	"time"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

var firstResponseWindow = map[domain.Priority]time.Duration{
	domain.PriorityCritical: 1 * time.Hour,
	domain.PriorityHigh:     4 * time.Hour,
	domain.PriorityMedium:   24 * time.Hour,
	domain.PriorityLow:      48 * time.Hour,
}

var resolutionWindow = map[domain.Priority]time.Duration{
	domain.PriorityCritical: 4 * time.Hour,
	domain.PriorityHigh:     24 * time.Hour,
	domain.PriorityMedium:   72 * time.Hour,
	domain.PriorityLow:      168 * time.Hour,
}

// ApplySLA stamps first-response and resolution deadlines derived from
// the ticket's priority. The due date mirrors the resolution deadline.
func ApplySLA(ticket *domain.Ticket, now time.Time) {
	priority := ticket.Priority
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}

	firstResponse := now.Add(firstResponseWindow[priority])
	resolution := now.Add(resolutionWindow[priority])

	ticket.FirstResponseDeadline = &firstResponse
	ticket.ResolutionDeadline = &resolution
	ticket.DueDate = &resolution
}
