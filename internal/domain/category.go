package domain

import (
	"strings"
	"time"
)

// CategoryKind is the closed set of categories the analysis pipeline can
// suggest. Free text maps onto it via ParseCategoryKind; anything outside
// the set lands on CategoryUnmatched instead of failing.
type CategoryKind string

const (
	CategoryTechnicalIssue  CategoryKind = "Technical Issue"
	CategoryAccountProblem  CategoryKind = "Account Problem"
	CategoryBillingQuestion CategoryKind = "Billing Question"
	CategoryFeatureRequest  CategoryKind = "Feature Request"
	CategoryBugReport       CategoryKind = "Bug Report"
	CategoryGeneralInquiry  CategoryKind = "General Inquiry"
	CategoryUnmatched       CategoryKind = "Unmatched"
)

// ParseCategoryKind maps free text onto the closed category set.
func ParseCategoryKind(text string) CategoryKind {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "technical issue":
		return CategoryTechnicalIssue
	case "account problem":
		return CategoryAccountProblem
	case "billing question":
		return CategoryBillingQuestion
	case "feature request":
		return CategoryFeatureRequest
	case "bug report":
		return CategoryBugReport
	case "general inquiry":
		return CategoryGeneralInquiry
	default:
		return CategoryUnmatched
	}
}

// Category is a stored ticket category.
type Category struct {
	ID          string
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
}
