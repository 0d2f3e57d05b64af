package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/repository"
)

// EscalationService decides whether a processed ticket needs management
// attention and applies the flag when a human receiver exists.
type EscalationService struct {
	users  repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewEscalationService constructs the service.
func NewEscalationService(users repository.UserRepository, logger *zap.Logger) *EscalationService {
	return &EscalationService{
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// ShouldEscalate evaluates the escalation conditions in severity order and
// returns the reason for the first match.
func ShouldEscalate(ticket *domain.Ticket, impact *domain.BusinessImpact, now time.Time) (string, bool) {
	if ticket.Priority >= domain.PriorityHigh && ticket.AssignedAgentID == nil {
		return fmt.Sprintf("%s priority ticket could not be assigned to an agent", ticket.Priority), true
	}
	if impact != nil && (impact.ImpactScope == domain.ScopeCompany || impact.BlockingLevel == domain.BlockingSystemDown) {
		return "Declared business impact is company-wide or system down", true
	}
	if impact != nil && impact.UrgentDeadline != nil && !impact.UrgentDeadline.After(now.Add(2*time.Hour)) {
		return "Declared deadline is less than two hours away", true
	}
	return "", false
}

// Apply flags the ticket when an escalation condition holds and at least
// one active admin exists to receive it. Without an admin the ticket is
// left unflagged. The configured system actor is recorded as the source.
func (s *EscalationService) Apply(ctx context.Context, ticket *domain.Ticket, impact *domain.BusinessImpact, systemActorID string) bool {
	now := s.now().UTC()
	reason, escalate := ShouldEscalate(ticket, impact, now)
	if !escalate {
		return false
	}

	admins, err := s.users.ListActiveAdmins(ctx)
	if err != nil {
		s.logger.Error("admin lookup failed, leaving ticket unescalated", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return false
	}
	if len(admins) == 0 {
		s.logger.Warn("escalation condition met but no active admin exists",
			zap.String("ticket_id", ticket.ID), zap.String("reason", reason))
		return false
	}

	ticket.IsEscalated = true
	ticket.EscalationReason = &reason
	ticket.EscalatedAt = &now
	ticket.EscalatedByID = &systemActorID
	return true
}
