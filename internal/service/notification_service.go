package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/events"
)

// Notification is a queued outbound message about a ticket change.
type Notification struct {
	TicketID     string
	TicketNumber string
	Kind         string
	Message      string
}

// NotificationService translates dispatcher events into queued
// notifications. Delivery happens on the worker, never on the request path.
type NotificationService struct {
	queue  chan<- Notification
	logger *zap.Logger
}

// NewNotificationService constructs the service around the worker queue.
func NewNotificationService(queue chan<- Notification, logger *zap.Logger) *NotificationService {
	return &NotificationService{queue: queue, logger: logger}
}

// RegisterHandlers subscribes the service to the ticket events it reports on.
func (s *NotificationService) RegisterHandlers(dispatcher *events.Dispatcher) {
	dispatcher.Subscribe(events.TicketCreated, func(ctx context.Context, event events.Event) {
		e := event.(events.TicketCreatedEvent)
		s.enqueue(Notification{
			TicketID:     e.Ticket.ID,
			TicketNumber: e.Ticket.TicketNumber,
			Kind:         "ticket_created",
			Message:      fmt.Sprintf("Ticket %s created: %s", e.Ticket.TicketNumber, e.Ticket.Title),
		})
	})
	dispatcher.Subscribe(events.TicketAssigned, func(ctx context.Context, event events.Event) {
		e := event.(events.TicketAssignedEvent)
		s.enqueue(Notification{
			TicketID:     e.Ticket.ID,
			TicketNumber: e.Ticket.TicketNumber,
			Kind:         "ticket_assigned",
			Message:      fmt.Sprintf("Ticket %s assigned (%s)", e.Ticket.TicketNumber, e.Reason),
		})
	})
	dispatcher.Subscribe(events.TicketStatusChanged, func(ctx context.Context, event events.Event) {
		e := event.(events.TicketStatusChangedEvent)
		s.enqueue(Notification{
			TicketID:     e.Ticket.ID,
			TicketNumber: e.Ticket.TicketNumber,
			Kind:         "ticket_status_changed",
			Message:      fmt.Sprintf("Ticket %s moved from %s to %s", e.Ticket.TicketNumber, e.OldStatus, e.NewStatus),
		})
	})
	dispatcher.Subscribe(events.TicketEscalated, func(ctx context.Context, event events.Event) {
		e := event.(events.TicketEscalatedEvent)
		s.enqueue(Notification{
			TicketID:     e.Ticket.ID,
			TicketNumber: e.Ticket.TicketNumber,
			Kind:         "ticket_escalated",
			Message:      fmt.Sprintf("Ticket %s escalated: %s", e.Ticket.TicketNumber, e.Reason),
		})
	})
}

// enqueue drops the notification when the queue is full rather than
// blocking the request path.
func (s *NotificationService) enqueue(n Notification) {
	select {
	case s.queue <- n:
	default:
		s.logger.Warn("notification queue full, dropping",
			zap.String("ticket_number", n.TicketNumber),
			zap.String("kind", n.Kind))
	}
}
