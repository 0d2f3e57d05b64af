package domain

import "time"

// HistoryAction captures what a history entry records.
type HistoryAction string

const (
	ActionCreated         HistoryAction = "Created"
	ActionStatusChanged   HistoryAction = "StatusChanged"
	ActionPriorityChanged HistoryAction = "PriorityChanged"
	ActionAssigned        HistoryAction = "Assigned"
	ActionEscalated       HistoryAction = "Escalated"
	ActionReanalyzed      HistoryAction = "Reanalyzed"
)

// TicketHistory is an immutable audit trail entry, written once per
// mutating operation.
type TicketHistory struct {
	ID        string
	TicketID  string
	UserID    *string
	Action    HistoryAction
	OldValue  *string
	NewValue  *string
	Details   map[string]any
	CreatedAt time.Time
}
