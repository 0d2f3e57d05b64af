package ai

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

// Prompt builders for the completion adapter. Each prompt instructs the
// model to answer with a bare value so the adapter can parse it.

// CategorizePrompt asks for one of the closed category names.
func CategorizePrompt(title, description string) string {
	return fmt.Sprintf(`Analyze this support ticket and categorize it into one of these categories:
- Technical Issue
- Account Problem
- Billing Question
- Feature Request
- Bug Report
- General Inquiry

Title: %s
Description: %s

Return only the category name, nothing else.`, title, description)
}

// PriorityPrompt asks for a 1-4 priority, surfacing declared business
// impact as additional context.
func PriorityPrompt(title, description string, impact *domain.BusinessImpact) string {
	businessContext := "None provided"
	if impact != nil {
		businessContext = fmt.Sprintf("Blocking Level: %d, Impact Scope: %d", impact.BlockingLevel, impact.ImpactScope)
	}
	return fmt.Sprintf(`Analyze this support ticket and determine its priority level:
1 = Low (general questions, minor issues, no urgency)
2 = Medium (moderate impact issues, standard business hours)
3 = High (significant impact, affects productivity, needs quick response)
4 = Critical (system down, major blocker, revenue impacting, many users affected)

Consider these factors:
- Keywords indicating urgency: 'urgent', 'critical', 'down', 'broken', 'can't work', 'blocking'
- Impact words: 'all users', 'system wide', 'production', 'revenue', 'customers affected'
- Emotion indicators: 'frustrated', 'angry', multiple exclamation marks
- Time sensitivity: 'ASAP', 'immediately', 'deadline', 'meeting in 1 hour'

Title: %s
Description: %s

Business Context: %s

Return only the priority number (1-4), nothing else.`, title, description, businessContext)
}

// SentimentPrompt asks for a 0.0-1.0 sentiment score.
func SentimentPrompt(text string) string {
	return fmt.Sprintf(`Analyze the sentiment and emotional tone of this customer message:

Message: %s

Consider:
- Emotional words (frustrated, angry, pleased, grateful, worried)
- Urgency indicators (ASAP, immediately, urgent, critical)
- Politeness level and tone
- Satisfaction indicators (happy, satisfied, disappointed, upset)
- Escalation language (demand, require, unacceptable)

Return a sentiment score between 0.0 and 1.0 where:
- 0.0-0.2 = Very negative (angry, furious, threatening)
- 0.2-0.4 = Negative (frustrated, disappointed, unhappy)
- 0.4-0.6 = Neutral (business-like, factual, no strong emotion)
- 0.6-0.8 = Positive (satisfied, pleased, grateful)
- 0.8-1.0 = Very positive (delighted, enthusiastic, grateful)

Return only the decimal number, nothing else.`, text)
}

// SuggestAgentPrompt lists the roster with skills and workload and asks
// for a 1-based agent number.
func SuggestAgentPrompt(ticketContent string, agents []domain.User) string {
	lines := make([]string, 0, len(agents))
	for i := range agents {
		skills := make([]string, 0, len(agents[i].Skills))
		for _, skill := range agents[i].Skills {
			skills = append(skills, skill.Name)
		}
		lines = append(lines, fmt.Sprintf("Agent %d: %s - Skills: %s - Current workload: %d tickets",
			i+1, agents[i].FullName(), strings.Join(skills, ", "), agents[i].Workload))
	}
	return fmt.Sprintf(`Given this support ticket, which agent would be best suited to handle it?

Ticket Content: %s

Available Agents:
%s

Consider:
- Skill matching (technical skills vs ticket requirements)
- Current workload (prefer less busy agents)
- Expertise level for the specific problem type

Return only the agent number (1, 2, 3, etc.), nothing else.`, ticketContent, strings.Join(lines, "\n"))
}
