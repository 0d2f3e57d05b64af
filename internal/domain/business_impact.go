package domain

import "time"

// BlockingLevel indicates how much the reported issue blocks work.
type BlockingLevel int

const (
	BlockingNotBlocking        BlockingLevel = 1
	BlockingPartiallyBlocking  BlockingLevel = 2
	BlockingCompletelyBlocking BlockingLevel = 3
	BlockingSystemDown         BlockingLevel = 4
)

// ImpactScope indicates how many people are affected.
type ImpactScope int

const (
	ScopeIndividual ImpactScope = 1
	ScopeTeam       ImpactScope = 2
	ScopeDepartment ImpactScope = 3
	ScopeCompany    ImpactScope = 4
)

// BusinessImpact is the customer-declared severity signal attached at
// creation. It is a scoring input only and is never re-evaluated afterwards.
type BusinessImpact struct {
	BlockingLevel     BlockingLevel `json:"blocking_level"`
	ImpactScope       ImpactScope   `json:"impact_scope"`
	UrgentDeadline    *time.Time    `json:"urgent_deadline,omitempty"`
	AdditionalContext *string       `json:"additional_context,omitempty"`
}
