package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/repository"
)

// fakeClient scripts the language-model adapter per result shape.
type fakeClient struct {
	available bool

	text   string
	textOK bool

	intVal int
	intOK  bool

	floatVal float64
	floatOK  bool
}

func (c *fakeClient) Available() bool { return c.available }

func (c *fakeClient) CompleteText(ctx context.Context, prompt string) (string, bool) {
	return c.text, c.textOK
}

func (c *fakeClient) CompleteInt(ctx context.Context, prompt string, min, max int) (int, bool) {
	if !c.intOK || c.intVal < min || c.intVal > max {
		return 0, false
	}
	return c.intVal, true
}

func (c *fakeClient) CompleteFloat(ctx context.Context, prompt string, min, max float64) (float64, bool) {
	if !c.floatOK || c.floatVal < min || c.floatVal > max {
		return 0, false
	}
	return c.floatVal, true
}

type fakeTicketRepo struct {
	tickets   map[string]*domain.Ticket
	createErr error
	updateErr error
	updates   int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	ticket.ID = uuid.NewString()
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.updates++
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) CountByNumberPrefix(ctx context.Context, prefix string) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if strings.HasPrefix(ticket.TicketNumber, prefix) {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users     map[string]*domain.User
	agents    []domain.User
	admins    []domain.User
	agentsErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListActiveAgents(ctx context.Context) ([]domain.User, error) {
	if r.agentsErr != nil {
		return nil, r.agentsErr
	}
	return r.agents, nil
}

func (r *fakeUserRepo) ListActiveAdmins(ctx context.Context) ([]domain.User, error) {
	return r.admins, nil
}

func (r *fakeUserRepo) GetAgentWorkload(ctx context.Context, agentID string) (int, error) {
	for _, agent := range r.agents {
		if agent.ID == agentID {
			return agent.Workload, nil
		}
	}
	return 0, nil
}

type fakeCategoryRepo struct {
	byName map[string]*domain.Category
}

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{byName: make(map[string]*domain.Category)}
	for _, name := range names {
		repo.byName[strings.ToLower(name)] = &domain.Category{
			ID:       uuid.NewString(),
			Name:     name,
			IsActive: true,
		}
	}
	return repo
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	for _, category := range r.byName {
		if category.ID == id {
			return category, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	category, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (r *fakeCategoryRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range r.byName {
		result = append(result, *category)
	}
	return result, nil
}

type fakeHistoryRepo struct {
	entries   []domain.TicketHistory
	createErr error
}

func (r *fakeHistoryRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	history.ID = uuid.NewString()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeInsightRepo struct {
	insights  []domain.AIInsight
	createErr error
}

func (r *fakeInsightRepo) CreateBatch(ctx context.Context, insights []domain.AIInsight) error {
	if r.createErr != nil {
		return r.createErr
	}
	for i := range insights {
		insights[i].ID = uuid.NewString()
	}
	r.insights = append(r.insights, insights...)
	return nil
}

func (r *fakeInsightRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.AIInsight, error) {
	var result []domain.AIInsight
	for _, insight := range r.insights {
		if insight.TicketID == ticketID {
			result = append(result, insight)
		}
	}
	return result, nil
}

type fakeNumberGenerator struct {
	number string
	err    error
}

func (g *fakeNumberGenerator) Next(ctx context.Context) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.number == "" {
		return "20250831-0001", nil
	}
	return g.number, nil
}
