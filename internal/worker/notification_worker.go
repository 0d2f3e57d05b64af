package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/service"
)

// NotificationWorker drains the notification queue off the request path.
// Delivery is currently log-only; a mail or webhook sender slots in here.
type NotificationWorker struct {
	queue  <-chan service.Notification
	logger *zap.Logger
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(queue <-chan service.Notification, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{queue: queue, logger: logger}
}

// Run consumes notifications until the context is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopping")
			return
		case n := <-w.queue:
			w.logger.Info("notification delivered",
				zap.String("ticket_number", n.TicketNumber),
				zap.String("kind", n.Kind),
				zap.String("message", n.Message))
		}
	}
}
