package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/ai"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/repository"
)

// categorySkillKeywords maps a ticket category to the specialist skill
// keywords used by the category-match fallback strategy.
var categorySkillKeywords = map[domain.CategoryKind][]string{
	domain.CategoryTechnicalIssue:  {"technical"},
	domain.CategoryBugReport:       {"technical"},
	domain.CategoryAccountProblem:  {"account"},
	domain.CategoryBillingQuestion: {"billing"},
}

// AssignmentOutcome records how an assignment attempt concluded.
type AssignmentOutcome struct {
	Method  domain.AssignmentMethod
	AgentID *string
	Reason  string
}

// AssignmentService picks an agent via ordered strategies: AI suggestion,
// skill match on the ticket's category, round-robin by workload, queue.
type AssignmentService struct {
	client     ai.Client
	users      repository.UserRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewAssignmentService constructs the service.
func NewAssignmentService(client ai.Client, users repository.UserRepository, categories repository.CategoryRepository, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		client:     client,
		users:      users,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// Assign mutates the ticket with the assignment outcome. It never returns
// an error; any roster or model failure degrades to queueing so ticket
// creation cannot be blocked here.
func (s *AssignmentService) Assign(ctx context.Context, ticket *domain.Ticket) AssignmentOutcome {
	agents, err := s.users.ListActiveAgents(ctx)
	if err != nil {
		s.logger.Error("agent roster unavailable, queueing ticket", zap.Error(err))
		agents = nil
	}

	if len(agents) == 0 {
		return s.queue(ticket)
	}

	if idx, ok := s.suggestAgent(ctx, ticket, agents); ok {
		return s.assignTo(ticket, agents[idx], domain.AssignmentMethodAI,
			fmt.Sprintf("AI matched to %s (current workload: %d tickets)", agents[idx].FullName(), agents[idx].Workload))
	}

	category := s.ticketCategory(ctx, ticket)
	if idx, ok := matchByCategorySkill(agents, category); ok {
		return s.assignTo(ticket, agents[idx], domain.AssignmentMethodCategoryMatch,
			fmt.Sprintf("Matched %s skills to %s (current workload: %d tickets)", category, agents[idx].FullName(), agents[idx].Workload))
	}

	idx := ai.SuggestAgentOffline(agents)
	return s.assignTo(ticket, agents[idx], domain.AssignmentMethodRoundRobin,
		fmt.Sprintf("Round-robin to least busy agent %s (current workload: %d tickets)", agents[idx].FullName(), agents[idx].Workload))
}

func (s *AssignmentService) queue(ticket *domain.Ticket) AssignmentOutcome {
	outcome := AssignmentOutcome{
		Method: domain.AssignmentMethodQueue,
		Reason: "No active agents available - ticket queued",
	}
	ticket.AssignmentMethod = outcome.Method
	ticket.AssignmentReason = &outcome.Reason
	return outcome
}

func (s *AssignmentService) assignTo(ticket *domain.Ticket, agent domain.User, method domain.AssignmentMethod, reason string) AssignmentOutcome {
	now := s.now().UTC()
	ticket.AssignedAgentID = &agent.ID
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedAt = &now
	ticket.AssignmentMethod = method
	ticket.AssignmentReason = &reason
	return AssignmentOutcome{Method: method, AgentID: &agent.ID, Reason: reason}
}

// ticketCategory resolves the kind of the category stored on the ticket,
// whether set by the customer or applied by analysis. Uncategorized
// tickets never qualify for the skill-match strategy.
func (s *AssignmentService) ticketCategory(ctx context.Context, ticket *domain.Ticket) domain.CategoryKind {
	if ticket.CategoryID == nil {
		return domain.CategoryUnmatched
	}
	category, err := s.categories.GetByID(ctx, *ticket.CategoryID)
	if err != nil {
		s.logger.Warn("ticket category unresolvable, skipping skill match",
			zap.String("ticket_id", ticket.ID),
			zap.String("category_id", *ticket.CategoryID),
			zap.Error(err))
		return domain.CategoryUnmatched
	}
	return domain.ParseCategoryKind(category.Name)
}

// suggestAgent asks the model for a 1-based roster index. Invalid or
// out-of-range answers are treated as no suggestion.
func (s *AssignmentService) suggestAgent(ctx context.Context, ticket *domain.Ticket, agents []domain.User) (int, bool) {
	prompt := ai.SuggestAgentPrompt(ticket.Title+" "+ticket.Description, agents)
	n, ok := s.client.CompleteInt(ctx, prompt, 1, len(agents))
	if !ok {
		return 0, false
	}
	return n - 1, true
}

// matchByCategorySkill finds the lowest-workload agent whose skill names
// contain one of the category's specialist keywords. The roster arrives
// ordered by workload, so the first match wins.
func matchByCategorySkill(agents []domain.User, category domain.CategoryKind) (int, bool) {
	keywords, mapped := categorySkillKeywords[category]
	if !mapped {
		return 0, false
	}
	for i := range agents {
		for _, skill := range agents[i].Skills {
			name := strings.ToLower(skill.Name)
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					return i, true
				}
			}
		}
	}
	return 0, false
}
