package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/events"
	"github.com/spec-kit/support-ticket-service/internal/observability"
)

type orchestratorFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	users      *fakeUserRepo
	categories *fakeCategoryRepo
	history    *fakeHistoryRepo
	insights   *fakeInsightRepo
	numbers    *fakeNumberGenerator
	metrics    *observability.Metrics
}

func newOrchestrator(client *fakeClient) *orchestratorFixture {
	logger := zap.NewNop()
	f := &orchestratorFixture{
		tickets:    newFakeTicketRepo(),
		users:      newFakeUserRepo(),
		categories: newFakeCategoryRepo("Technical Issue", "Billing Question"),
		history:    &fakeHistoryRepo{},
		insights:   &fakeInsightRepo{},
		numbers:    &fakeNumberGenerator{},
		metrics:    observability.NewMetrics(),
	}

	categories := f.categories
	analysis := NewAnalysisService(AnalysisServiceDeps{
		Client:            client,
		Categories:        categories,
		Insights:          f.insights,
		Metrics:           f.metrics,
		Logger:            logger,
		CategoryThreshold: 0.7,
	})

	f.svc = NewTicketService(TicketServiceDeps{
		Tickets:     f.tickets,
		Users:       f.users,
		History:     f.history,
		Numbers:     f.numbers,
		Analysis:    analysis,
		Assignment:  NewAssignmentService(client, f.users, categories, logger),
		Escalation:  NewEscalationService(f.users, logger),
		Dispatcher:  events.NewDispatcher(logger),
		Metrics:     f.metrics,
		Logger:      logger,
		SystemActor: SystemActor{UserID: "system-id", Email: "system@support.local"},
	})
	return f
}

func TestCreateTicketFullPipeline(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	f.users.agents = []domain.User{{ID: "agent-1", FirstName: "Ada", LastName: "Ng", Workload: 0}}

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "System is completely down for all users!!!",
		Description: "nobody can log in",
	})
	require.NoError(t, err)

	assert.Equal(t, "20250831-0001", ticket.TicketNumber)
	assert.Equal(t, domain.PriorityCritical, ticket.Priority)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	require.NotNil(t, ticket.AssignedAgentID)
	assert.Equal(t, "agent-1", *ticket.AssignedAgentID)
	assert.Equal(t, domain.AssignmentMethodRoundRobin, ticket.AssignmentMethod)
	assert.NotNil(t, ticket.FirstResponseDeadline)
	assert.Len(t, f.insights.insights, 3)
	assert.Equal(t, int64(1), f.metrics.TicketsCreated.Load())

	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	assert.Equal(t, domain.ActionCreated, entry.Action)
	assert.Equal(t, "Critical", entry.Details["priority"])
	assert.Equal(t, string(domain.AssignmentMethodRoundRobin), entry.Details["assignment_method"])
	assert.Equal(t, false, entry.Details["has_business_impact"])
}

func TestCreateTicketPresetCategoryDrivesSkillMatch(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	f.users.agents = []domain.User{
		{ID: "agent-tech", FirstName: "Ada", LastName: "Ng", Workload: 0,
			Skills: []domain.AgentSkill{{Name: "Technical Support", Proficiency: 5}}},
		{ID: "agent-bill", FirstName: "Bo", LastName: "Reyes", Workload: 3,
			Skills: []domain.AgentSkill{{Name: "Billing Support", Proficiency: 4}}},
	}
	billing, err := f.categories.GetByName(context.Background(), "Billing Question")
	require.NoError(t, err)

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "server error on the invoices page",
		Description: "technical glitch while paying",
		CategoryID:  &billing.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AssignmentMethodCategoryMatch, ticket.AssignmentMethod)
	require.NotNil(t, ticket.AssignedAgentID)
	assert.Equal(t, "agent-bill", *ticket.AssignedAgentID, "the customer's category outweighs the technical wording")
	require.NotNil(t, ticket.CategoryID)
	assert.Equal(t, billing.ID, *ticket.CategoryID, "a preset category is never overwritten")
}

func TestCreateTicketUnappliedSuggestionSkipsSkillMatch(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	f.users.agents = []domain.User{
		{ID: "agent-idle", FirstName: "Ada", LastName: "Ng", Workload: 0},
		{ID: "agent-tech", FirstName: "Bo", LastName: "Reyes", Workload: 3,
			Skills: []domain.AgentSkill{{Name: "Technical Support", Proficiency: 5}}},
	}

	// offline categorization suggests Technical Issue but its confidence
	// sits below the apply threshold, so the ticket stays uncategorized
	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "technical problem with the server",
		Description: "pages load slowly",
	})
	require.NoError(t, err)

	assert.Nil(t, ticket.CategoryID)
	assert.Equal(t, domain.AssignmentMethodRoundRobin, ticket.AssignmentMethod)
	require.NotNil(t, ticket.AssignedAgentID)
	assert.Equal(t, "agent-idle", *ticket.AssignedAgentID, "an unapplied suggestion must not steer skill matching")
}

func TestCreateTicketSucceedsWhenInsightsFail(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	f.insights.createErr = errors.New("insight store unavailable")

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "production down",
		Description: "all users affected",
	})
	require.NoError(t, err, "AI-side failures must never block creation")
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.PriorityCritical, ticket.Priority, "analysis result still applies")
	assert.Equal(t, int64(1), f.metrics.AnalysisFailures.Load())
}

func TestCreateTicketQueuedAndEscalated(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	// no agents, but an admin exists to receive the escalation
	f.users.admins = []domain.User{{ID: "admin-1", Role: domain.RoleAdmin, IsActive: true}}

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "urgent, this is blocking our release",
		Description: "asap please",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Nil(t, ticket.AssignedAgentID)
	assert.Equal(t, domain.AssignmentMethodQueue, ticket.AssignmentMethod)
	assert.True(t, ticket.IsEscalated)
	require.NotNil(t, ticket.EscalatedByID)
	assert.Equal(t, "system-id", *ticket.EscalatedByID)
}

func TestCreateTicketQueuedNoAdminNoEscalation(t *testing.T) {
	f := newOrchestrator(&fakeClient{})

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "production down for all users",
		Description: "critical",
	})
	require.NoError(t, err)
	assert.False(t, ticket.IsEscalated)
}

func TestCreateTicketBusinessImpactFloor(t *testing.T) {
	f := newOrchestrator(&fakeClient{})

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID:  "cust-1",
		Title:       "Question about settings",
		Description: "where is the timezone option",
		BusinessImpact: &domain.BusinessImpact{
			BlockingLevel: domain.BlockingSystemDown,
			ImpactScope:   domain.ScopeIndividual,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityCritical, ticket.Priority)
	assert.NotNil(t, ticket.BusinessImpactData)
	assert.Equal(t, true, f.history.entries[0].Details["has_business_impact"])
}

func TestCreateTicketNumberFailureIsFatal(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	f.numbers.err = errors.New("sequence unavailable")

	_, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID: "cust-1", Title: "x", Description: "y",
	})
	require.Error(t, err)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	f.users.agents = []domain.User{{ID: "agent-1", FirstName: "Ada", LastName: "Ng"}}

	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID: "cust-1", Title: "help", Description: "please",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusInProgress, ticket.Status)

	updated, err := f.svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusResolved, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)

	// closed is terminal
	updated, err = f.svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusClosed, "agent-1")
	require.NoError(t, err)
	assert.NotNil(t, updated.ClosedAt)

	_, err = f.svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusInProgress, "agent-1")
	require.Error(t, err)
}

func TestUpdateStatusUnknownTicket(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	_, err := f.svc.UpdateStatus(context.Background(), "missing", domain.TicketStatusClosed, "agent-1")
	require.Error(t, err)
}

func TestUpdatePriorityRecomputesSLA(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID: "cust-1", Title: "minor issue, when possible", Description: "no rush",
	})
	require.NoError(t, err)
	// low-urgency text, but the absent-impact floor keeps it at Medium
	require.Equal(t, domain.PriorityMedium, ticket.Priority)
	before := *ticket.ResolutionDeadline

	updated, err := f.svc.UpdatePriority(context.Background(), ticket.ID, domain.PriorityCritical, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityCritical, updated.Priority)
	assert.True(t, updated.ResolutionDeadline.Before(before), "raising priority tightens the deadline")

	_, err = f.svc.UpdatePriority(context.Background(), ticket.ID, domain.Priority(7), "agent-1")
	require.Error(t, err)
}

func TestAssignTicketManually(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID: "cust-1", Title: "help", Description: "please",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusNew, ticket.Status)

	agent := &domain.User{Email: "agent@x.io", FirstName: "Ada", LastName: "Ng", Role: domain.RoleAgent, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), agent))

	updated, err := f.svc.AssignTicket(context.Background(), ticket.ID, agent.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentMethodManual, updated.AssignmentMethod)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	require.NotNil(t, updated.AssignedAgentID)
	assert.Equal(t, agent.ID, *updated.AssignedAgentID)
}

func TestAssignTicketRejectsNonAgents(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID: "cust-1", Title: "help", Description: "please",
	})
	require.NoError(t, err)

	customer := &domain.User{Email: "c@x.io", FirstName: "C", LastName: "D", Role: domain.RoleCustomer, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), customer))
	_, err = f.svc.AssignTicket(context.Background(), ticket.ID, customer.ID, "admin-1")
	require.Error(t, err)

	inactive := &domain.User{Email: "i@x.io", FirstName: "I", LastName: "J", Role: domain.RoleAgent, IsActive: false}
	require.NoError(t, f.users.Create(context.Background(), inactive))
	_, err = f.svc.AssignTicket(context.Background(), ticket.ID, inactive.ID, "admin-1")
	require.Error(t, err)

	_, err = f.svc.AssignTicket(context.Background(), ticket.ID, "missing", "admin-1")
	require.Error(t, err)
}

func TestReanalyzeTicket(t *testing.T) {
	f := newOrchestrator(&fakeClient{})
	ticket, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		CustomerID: "cust-1", Title: "something odd", Description: "screen flickers",
		BusinessImpact: &domain.BusinessImpact{
			BlockingLevel: domain.BlockingCompletelyBlocking,
			ImpactScope:   domain.ScopeTeam,
		},
	})
	require.NoError(t, err)
	require.Len(t, f.insights.insights, 3)

	updated, err := f.svc.ReanalyzeTicket(context.Background(), ticket.ID, "agent-1")
	require.NoError(t, err)

	assert.Len(t, f.insights.insights, 6, "reanalysis appends a fresh insight set")
	assert.GreaterOrEqual(t, updated.Priority, domain.PriorityHigh,
		"stored business impact still floors the merged priority")

	var reanalyzed bool
	for _, entry := range f.history.entries {
		if entry.Action == domain.ActionReanalyzed {
			reanalyzed = true
		}
	}
	assert.True(t, reanalyzed)
}
