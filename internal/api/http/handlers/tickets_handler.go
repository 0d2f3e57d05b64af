package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-ticket-service/internal/api/dto"
	"github.com/spec-kit/support-ticket-service/internal/auth"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/repository"
	"github.com/spec-kit/support-ticket-service/internal/service"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	impact, err := req.BusinessImpact.ToDomain()
	if err != nil {
		return err
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), service.CreateTicketInput{
		CustomerID:     auth.CurrentUserID(c),
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		BusinessImpact: impact,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTicket(ticket))
}

// List handles GET /tickets. Customers only ever see their own tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := repository.TicketFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	if priorities := c.Query("priority"); priorities != "" {
		for _, p := range strings.Split(priorities, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				filter.Priorities = append(filter.Priorities, domain.Priority(n))
			}
		}
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if agentID := c.Query("agent_id"); agentID != "" {
		filter.AgentID = &agentID
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	if auth.CurrentRole(c) == domain.RoleCustomer {
		userID := auth.CurrentUserID(c)
		filter.CustomerID = &userID
	} else if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}

	tickets, err := h.tickets.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": dto.FromTickets(tickets)})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.loadVisible(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// History handles GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	ticket, err := h.loadVisible(c)
	if err != nil {
		return err
	}
	entries, err := h.tickets.ListHistory(c.Context(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"history": dto.FromHistory(entries)})
}

// UpdateStatus handles POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}

	status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case domain.TicketStatusNew, domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed:
	default:
		return util.Validation("unknown status")
	}

	ticket, err := h.tickets.UpdateStatus(c.Context(), c.Params("id"), status, auth.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// UpdatePriority handles POST /tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}
	ticket, err := h.tickets.UpdatePriority(c.Context(), c.Params("id"), domain.Priority(req.Priority), auth.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Assign handles POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}
	if strings.TrimSpace(req.AgentID) == "" {
		return util.Validation("agent_id is required")
	}
	ticket, err := h.tickets.AssignTicket(c.Context(), c.Params("id"), req.AgentID, auth.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Reanalyze handles POST /tickets/:id/reanalyze.
func (h *TicketsHandler) Reanalyze(c *fiber.Ctx) error {
	ticket, err := h.tickets.ReanalyzeTicket(c.Context(), c.Params("id"), auth.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// loadVisible loads the ticket and enforces that customers can only read
// their own tickets.
func (h *TicketsHandler) loadVisible(c *fiber.Ctx) (*domain.Ticket, error) {
	ticket, err := h.tickets.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if auth.CurrentRole(c) == domain.RoleCustomer && ticket.CustomerID != auth.CurrentUserID(c) {
		return nil, util.NotFound("ticket not found")
	}
	return ticket, nil
}
