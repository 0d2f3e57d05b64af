package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/events"
	"github.com/spec-kit/support-ticket-service/internal/observability"
	"github.com/spec-kit/support-ticket-service/internal/persistence"
	"github.com/spec-kit/support-ticket-service/internal/repository"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// SystemActor is the configured identity recorded on pipeline-originated
// changes such as automatic escalation.
type SystemActor struct {
	UserID string
	Email  string
}

// CreateTicketInput is the validated payload for ticket creation.
type CreateTicketInput struct {
	CustomerID     string
	Title          string
	Description    string
	CategoryID     *string
	BusinessImpact *domain.BusinessImpact
}

// TicketServiceDeps bundles the orchestrator dependencies.
type TicketServiceDeps struct {
	Tickets     repository.TicketRepository
	Users       repository.UserRepository
	History     repository.TicketHistoryRepository
	Numbers     persistence.TicketNumberGenerator
	Analysis    *AnalysisService
	Assignment  *AssignmentService
	Escalation  *EscalationService
	Dispatcher  *events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	SystemActor SystemActor
}

// TicketService orchestrates the ticket lifecycle: creation with the
// intelligent processing pipeline, and the explicit update operations.
type TicketService struct {
	deps TicketServiceDeps
	now  func() time.Time
}

// NewTicketService constructs the orchestrator.
func NewTicketService(deps TicketServiceDeps) *TicketService {
	return &TicketService{deps: deps, now: time.Now}
}

// CreateTicket persists the ticket, then runs analysis, assignment and
// escalation. The pipeline is best effort: any failure inside it is logged
// and the ticket is still created with the business-impact fallback
// priority. Only data store failures surface to the caller.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	number, err := s.deps.Numbers.Next(ctx)
	if err != nil {
		return nil, util.WrapDomainError(util.CodeInternal, "could not allocate ticket number", err)
	}

	ticket := &domain.Ticket{
		TicketNumber: number,
		CustomerID:   input.CustomerID,
		CategoryID:   input.CategoryID,
		Title:        input.Title,
		Description:  input.Description,
		Priority:     ScoreBusinessImpact(input.BusinessImpact, s.now()),
		Status:       domain.TicketStatusNew,
	}
	if input.BusinessImpact != nil {
		if raw, err := json.Marshal(input.BusinessImpact); err == nil {
			encoded := string(raw)
			ticket.BusinessImpactData = &encoded
		}
	}

	if err := s.deps.Tickets.Create(ctx, ticket); err != nil {
		return nil, util.ToDomainError(err, "could not create ticket")
	}

	outcome, escalated := s.runPipeline(ctx, ticket, input.BusinessImpact)

	if err := s.deps.Tickets.Update(ctx, ticket); err != nil {
		return nil, util.ToDomainError(err, "could not persist processed ticket")
	}

	s.appendHistory(ctx, &domain.TicketHistory{
		TicketID: ticket.ID,
		Action:   domain.ActionCreated,
		Details: map[string]any{
			"title":               ticket.Title,
			"priority":            ticket.Priority.String(),
			"category_id":         ticket.CategoryID,
			"assignment_method":   string(ticket.AssignmentMethod),
			"has_business_impact": input.BusinessImpact != nil,
		},
	})

	s.deps.Metrics.TicketsCreated.Add(1)

	actor := events.Actor{UserID: s.deps.SystemActor.UserID, Email: s.deps.SystemActor.Email}
	s.deps.Dispatcher.Dispatch(ctx, events.TicketCreatedEvent{Ticket: *ticket, Actor: actor})
	if outcome.AgentID != nil {
		s.deps.Dispatcher.Dispatch(ctx, events.TicketAssignedEvent{
			Ticket:  *ticket,
			AgentID: *outcome.AgentID,
			Method:  outcome.Method,
			Reason:  outcome.Reason,
			Actor:   actor,
		})
	}
	if escalated {
		s.deps.Dispatcher.Dispatch(ctx, events.TicketEscalatedEvent{
			Ticket: *ticket,
			Reason: derefString(ticket.EscalationReason),
			Actor:  actor,
		})
	}

	return ticket, nil
}

// runPipeline executes analyze, assign and escalate. Each step runs behind
// a recover boundary so a fault in one cannot abort creation or skip the
// remaining steps entirely.
func (s *TicketService) runPipeline(ctx context.Context, ticket *domain.Ticket, impact *domain.BusinessImpact) (AssignmentOutcome, bool) {
	s.guard("analyze", ticket.ID, func() {
		if _, err := s.deps.Analysis.Process(ctx, ticket, impact); err != nil {
			s.deps.Metrics.AnalysisFailures.Add(1)
			s.deps.Logger.Error("insight persistence failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	})

	outcome := AssignmentOutcome{Method: domain.AssignmentMethodQueue}
	s.guard("assign", ticket.ID, func() {
		outcome = s.deps.Assignment.Assign(ctx, ticket)
	})

	escalated := false
	s.guard("escalate", ticket.ID, func() {
		escalated = s.deps.Escalation.Apply(ctx, ticket, impact, s.deps.SystemActor.UserID)
	})

	return outcome, escalated
}

func (s *TicketService) guard(step, ticketID string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.deps.Metrics.AnalysisFailures.Add(1)
			s.deps.Logger.Error("pipeline step panicked",
				zap.String("step", step),
				zap.String("ticket_id", ticketID),
				zap.Any("panic", r))
		}
	}()
	fn()
}

// GetTicket loads a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.deps.Tickets.GetByID(ctx, id)
	if err != nil {
		return nil, util.ToDomainError(err, "ticket not found")
	}
	return ticket, nil
}

// GetTicketByNumber loads a ticket via its public number.
func (s *TicketService) GetTicketByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	ticket, err := s.deps.Tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, util.ToDomainError(err, "ticket not found")
	}
	return ticket, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.deps.Tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, util.ToDomainError(err, "could not list tickets")
	}
	return tickets, nil
}

// ListHistory returns the audit trail for a ticket.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	entries, err := s.deps.History.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, util.ToDomainError(err, "could not list ticket history")
	}
	return entries, nil
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusInProgress, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
}

func transitionAllowed(from, to domain.TicketStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves a ticket through its lifecycle. Unlike the creation
// pipeline this fails loudly on invalid transitions.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, newStatus domain.TicketStatus, actorID string) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if oldStatus == newStatus {
		return ticket, nil
	}
	if !transitionAllowed(oldStatus, newStatus) {
		return nil, util.Validation(fmt.Sprintf("cannot transition ticket from %s to %s", oldStatus, newStatus))
	}

	now := s.now().UTC()
	ticket.Status = newStatus
	switch newStatus {
	case domain.TicketStatusResolved:
		ticket.ResolvedAt = &now
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
	case domain.TicketStatusInProgress:
		ticket.ResolvedAt = nil
	}

	if err := s.deps.Tickets.Update(ctx, ticket); err != nil {
		return nil, util.ToDomainError(err, "could not update ticket status")
	}

	oldVal, newVal := string(oldStatus), string(newStatus)
	s.appendHistory(ctx, &domain.TicketHistory{
		TicketID: ticket.ID,
		UserID:   &actorID,
		Action:   domain.ActionStatusChanged,
		OldValue: &oldVal,
		NewValue: &newVal,
	})
	s.deps.Dispatcher.Dispatch(ctx, events.TicketStatusChangedEvent{
		Ticket:    *ticket,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Actor:     events.Actor{UserID: actorID},
	})
	return ticket, nil
}

// UpdatePriority sets an explicit priority, overriding the pipeline value.
func (s *TicketService) UpdatePriority(ctx context.Context, ticketID string, newPriority domain.Priority, actorID string) (*domain.Ticket, error) {
	if !newPriority.Valid() {
		return nil, util.Validation("priority must be between 1 and 4")
	}
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldPriority := ticket.Priority
	if oldPriority == newPriority {
		return ticket, nil
	}

	ticket.Priority = newPriority
	ApplySLA(ticket, s.now().UTC())

	if err := s.deps.Tickets.Update(ctx, ticket); err != nil {
		return nil, util.ToDomainError(err, "could not update ticket priority")
	}

	oldVal, newVal := oldPriority.String(), newPriority.String()
	s.appendHistory(ctx, &domain.TicketHistory{
		TicketID: ticket.ID,
		UserID:   &actorID,
		Action:   domain.ActionPriorityChanged,
		OldValue: &oldVal,
		NewValue: &newVal,
	})
	s.deps.Dispatcher.Dispatch(ctx, events.TicketPriorityChangedEvent{
		Ticket:      *ticket,
		OldPriority: oldPriority,
		NewPriority: newPriority,
		Actor:       events.Actor{UserID: actorID},
	})
	return ticket, nil
}

// AssignTicket assigns a specific agent manually. Preconditions fail
// loudly: the agent must exist, be active and hold the agent role.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, agentID, actorID string) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	agent, err := s.deps.Users.GetByID(ctx, agentID)
	if err != nil {
		return nil, util.ToDomainError(err, "agent not found")
	}
	if agent.Role != domain.RoleAgent || !agent.IsActive {
		return nil, util.Validation("assignee must be an active agent")
	}

	now := s.now().UTC()
	oldAgent := derefString(ticket.AssignedAgentID)
	reason := fmt.Sprintf("Manually assigned to %s", agent.FullName())

	ticket.AssignedAgentID = &agent.ID
	ticket.AssignedAt = &now
	ticket.AssignmentMethod = domain.AssignmentMethodManual
	ticket.AssignmentReason = &reason
	if ticket.Status == domain.TicketStatusNew {
		ticket.Status = domain.TicketStatusInProgress
	}

	if err := s.deps.Tickets.Update(ctx, ticket); err != nil {
		return nil, util.ToDomainError(err, "could not assign ticket")
	}

	s.appendHistory(ctx, &domain.TicketHistory{
		TicketID: ticket.ID,
		UserID:   &actorID,
		Action:   domain.ActionAssigned,
		OldValue: nilIfEmpty(oldAgent),
		NewValue: &agent.ID,
		Details:  map[string]any{"method": string(domain.AssignmentMethodManual)},
	})
	s.deps.Dispatcher.Dispatch(ctx, events.TicketAssignedEvent{
		Ticket:  *ticket,
		AgentID: agent.ID,
		Method:  domain.AssignmentMethodManual,
		Reason:  reason,
		Actor:   events.Actor{UserID: actorID},
	})
	return ticket, nil
}

// ReanalyzeTicket re-runs content analysis on demand. Assignment and
// escalation state are left untouched; only the analysis-derived fields
// and a fresh set of insight records change.
func (s *TicketService) ReanalyzeTicket(ctx context.Context, ticketID, actorID string) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	impact, err := decodeImpact(ticket.BusinessImpactData)
	if err != nil {
		s.deps.Logger.Warn("stored business impact unreadable", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	oldPriority := ticket.Priority
	result, err := s.deps.Analysis.Process(ctx, ticket, impact)
	if err != nil {
		s.deps.Metrics.AnalysisFailures.Add(1)
		s.deps.Logger.Error("insight persistence failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	if err := s.deps.Tickets.Update(ctx, ticket); err != nil {
		return nil, util.ToDomainError(err, "could not persist reanalyzed ticket")
	}

	oldVal, newVal := oldPriority.String(), ticket.Priority.String()
	s.appendHistory(ctx, &domain.TicketHistory{
		TicketID: ticket.ID,
		UserID:   &actorID,
		Action:   domain.ActionReanalyzed,
		OldValue: &oldVal,
		NewValue: &newVal,
		Details: map[string]any{
			"suggested_category": string(result.Category),
			"sentiment_score":    result.Sentiment,
		},
	})
	s.deps.Dispatcher.Dispatch(ctx, events.TicketAnalyzedEvent{
		Ticket: *ticket,
		Analysis: domain.AIAnalysis{
			SuggestedCategory: result.Category,
			SuggestedPriority: int(result.Priority),
			SentimentScore:    result.Sentiment,
			Keywords:          result.Keywords,
			AnalyzedAt:        result.AnalyzedAt,
		},
		Actor: events.Actor{UserID: actorID},
	})
	return ticket, nil
}

// appendHistory writes an audit entry; failures are logged, never fatal.
func (s *TicketService) appendHistory(ctx context.Context, entry *domain.TicketHistory) {
	if err := s.deps.History.Create(ctx, entry); err != nil {
		s.deps.Logger.Error("could not append ticket history",
			zap.String("ticket_id", entry.TicketID),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}

func decodeImpact(raw *string) (*domain.BusinessImpact, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var impact domain.BusinessImpact
	if err := json.Unmarshal([]byte(*raw), &impact); err != nil {
		return nil, err
	}
	return &impact, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
