package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// BusinessImpactRequest is the customer-declared impact payload.
type BusinessImpactRequest struct {
	BlockingLevel     int        `json:"blocking_level"`
	ImpactScope       int        `json:"impact_scope"`
	UrgentDeadline    *time.Time `json:"urgent_deadline,omitempty"`
	AdditionalContext *string    `json:"additional_context,omitempty"`
}

// ToDomain validates and converts the impact payload.
func (r *BusinessImpactRequest) ToDomain() (*domain.BusinessImpact, error) {
	if r == nil {
		return nil, nil
	}
	if r.BlockingLevel < int(domain.BlockingNotBlocking) || r.BlockingLevel > int(domain.BlockingSystemDown) {
		return nil, util.Validation("blocking_level must be between 1 and 4")
	}
	if r.ImpactScope < int(domain.ScopeIndividual) || r.ImpactScope > int(domain.ScopeCompany) {
		return nil, util.Validation("impact_scope must be between 1 and 4")
	}
	return &domain.BusinessImpact{
		BlockingLevel:     domain.BlockingLevel(r.BlockingLevel),
		ImpactScope:       domain.ImpactScope(r.ImpactScope),
		UrgentDeadline:    r.UrgentDeadline,
		AdditionalContext: r.AdditionalContext,
	}, nil
}

// CreateTicketRequest is the ticket creation payload.
type CreateTicketRequest struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	CategoryID     *string                `json:"category_id,omitempty"`
	BusinessImpact *BusinessImpactRequest `json:"business_impact,omitempty"`
}

// Validate checks the required fields.
func (r *CreateTicketRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return util.Validation("title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return util.Validation("description is required")
	}
	return nil
}

// UpdateStatusRequest carries a lifecycle transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePriorityRequest carries an explicit priority override.
type UpdatePriorityRequest struct {
	Priority int `json:"priority"`
}

// AssignTicketRequest carries a manual assignment.
type AssignTicketRequest struct {
	AgentID string `json:"agent_id"`
}

// TicketResponse is the API shape of a ticket.
type TicketResponse struct {
	ID              string  `json:"id"`
	TicketNumber    string  `json:"ticket_number"`
	CustomerID      string  `json:"customer_id"`
	AssignedAgentID *string `json:"assigned_agent_id,omitempty"`
	CategoryID      *string `json:"category_id,omitempty"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Priority        int     `json:"priority"`
	PriorityLabel   string  `json:"priority_label"`
	Status          string  `json:"status"`

	AssignmentMethod string     `json:"assignment_method,omitempty"`
	AssignmentReason *string    `json:"assignment_reason,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`

	IsEscalated      bool       `json:"is_escalated"`
	EscalationReason *string    `json:"escalation_reason,omitempty"`
	EscalatedAt      *time.Time `json:"escalated_at,omitempty"`

	FirstResponseDeadline *time.Time `json:"first_response_deadline,omitempty"`
	ResolutionDeadline    *time.Time `json:"resolution_deadline,omitempty"`
	DueDate               *time.Time `json:"due_date,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// FromTicket maps a domain ticket onto the response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                    t.ID,
		TicketNumber:          t.TicketNumber,
		CustomerID:            t.CustomerID,
		AssignedAgentID:       t.AssignedAgentID,
		CategoryID:            t.CategoryID,
		Title:                 t.Title,
		Description:           t.Description,
		Priority:              int(t.Priority),
		PriorityLabel:         t.Priority.String(),
		Status:                string(t.Status),
		AssignmentMethod:      string(t.AssignmentMethod),
		AssignmentReason:      t.AssignmentReason,
		AssignedAt:            t.AssignedAt,
		IsEscalated:           t.IsEscalated,
		EscalationReason:      t.EscalationReason,
		EscalatedAt:           t.EscalatedAt,
		FirstResponseDeadline: t.FirstResponseDeadline,
		ResolutionDeadline:    t.ResolutionDeadline,
		DueDate:               t.DueDate,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		ResolvedAt:            t.ResolvedAt,
		ClosedAt:              t.ClosedAt,
	}
}

// FromTickets maps a ticket slice.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, len(tickets))
	for i := range tickets {
		result[i] = FromTicket(&tickets[i])
	}
	return result
}

// HistoryResponse is the API shape of an audit entry.
type HistoryResponse struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	OldValue  *string        `json:"old_value,omitempty"`
	NewValue  *string        `json:"new_value,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromHistory maps audit entries.
func FromHistory(entries []domain.TicketHistory) []HistoryResponse {
	result := make([]HistoryResponse, len(entries))
	for i, e := range entries {
		result[i] = HistoryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    string(e.Action),
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		}
	}
	return result
}
