package events

import "github.com/spec-kit/support-ticket-service/internal/domain"

// EventName identifies an event kind on the dispatcher.
type EventName string

const (
	TicketCreated         EventName = "ticket.created"
	TicketAssigned        EventName = "ticket.assigned"
	TicketStatusChanged   EventName = "ticket.status_changed"
	TicketPriorityChanged EventName = "ticket.priority_changed"
	TicketEscalated       EventName = "ticket.escalated"
	TicketAnalyzed        EventName = "ticket.analyzed"
)

// Event is implemented by every dispatched payload.
type Event interface {
	Name() EventName
}

// Actor identifies who triggered an event. For pipeline-originated
// changes this is the configured system actor.
type Actor struct {
	UserID string
	Email  string
}

type TicketCreatedEvent struct {
	Ticket domain.Ticket
	Actor  Actor
}

func (TicketCreatedEvent) Name() EventName { return TicketCreated }

type TicketAssignedEvent struct {
	Ticket  domain.Ticket
	AgentID string
	Method  domain.AssignmentMethod
	Reason  string
	Actor   Actor
}

func (TicketAssignedEvent) Name() EventName { return TicketAssigned }

type TicketStatusChangedEvent struct {
	Ticket    domain.Ticket
	OldStatus domain.TicketStatus
	NewStatus domain.TicketStatus
	Actor     Actor
}

func (TicketStatusChangedEvent) Name() EventName { return TicketStatusChanged }

type TicketPriorityChangedEvent struct {
	Ticket      domain.Ticket
	OldPriority domain.Priority
	NewPriority domain.Priority
	Actor       Actor
}

func (TicketPriorityChangedEvent) Name() EventName { return TicketPriorityChanged }

type TicketEscalatedEvent struct {
	Ticket domain.Ticket
	Reason string
	Actor  Actor
}

func (TicketEscalatedEvent) Name() EventName { return TicketEscalated }

type TicketAnalyzedEvent struct {
	Ticket   domain.Ticket
	Analysis domain.AIAnalysis
	Actor    Actor
}

func (TicketAnalyzedEvent) Name() EventName { return TicketAnalyzed }
