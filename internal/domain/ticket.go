package domain

import (
	"strconv"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Priority orders ticket urgency from low to critical.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// String renders the human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}
}

// Valid reports whether the priority is within the defined range.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ClampPriority forces a raw score into the valid priority range.
func ClampPriority(v int) Priority {
	if v < int(PriorityLow) {
		return PriorityLow
	}
	if v > int(PriorityCritical) {
		return PriorityCritical
	}
	return Priority(v)
}

// AssignmentMethod records how a ticket reached its assignee.
type AssignmentMethod string

const (
	AssignmentMethodAI            AssignmentMethod = "AI"
	AssignmentMethodCategoryMatch AssignmentMethod = "CATEGORY_MATCH"
	AssignmentMethodRoundRobin    AssignmentMethod = "ROUND_ROBIN"
	AssignmentMethodManual        AssignmentMethod = "MANUAL"
	AssignmentMethodQueue         AssignmentMethod = "QUEUE"
)

// Ticket is the aggregate for customer support requests.
//
// TicketNumber is immutable once assigned. Status and Priority change only
// through the orchestrator or the explicit update operations.
type Ticket struct {
	ID              string
	TicketNumber    string
	CustomerID      string
	AssignedAgentID *string
	CategoryID      *string
	Title           string
	Description     string
	Priority        Priority
	Status          TicketStatus

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
	ClosedAt   *time.Time
	DueDate    *time.Time

	FirstResponseDeadline *time.Time
	ResolutionDeadline    *time.Time

	AssignmentMethod AssignmentMethod
	AssignmentReason *string
	AssignedAt       *time.Time

	IsEscalated      bool
	EscalationReason *string
	EscalatedAt      *time.Time
	EscalatedByID    *string

	// Serialized payloads persisted verbatim by the data store.
	BusinessImpactData *string
	AIAnalysis         *string
}
