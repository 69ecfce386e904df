package core

import (
	"fmt"
	"strings"

	"github.com/localedge/growthplan/pkg/models"
)

// questionRule maps a title pattern to the primary question that page
// answers. Rules are evaluated first-match-wins, so precedence is the
// declaration order below.
type questionRule struct {
	matches  func(title string) bool
	question func(t *models.GrowthTask) string
}

// questionRules derives the primary question a task answers from its title.
// Ordered: more specific patterns (faq, cost, comparison) outrank the
// role-based fallbacks.
var questionRules = []questionRule{
	{
		matches: func(title string) bool { return ContainsAny(title, "faq", "question") },
		question: func(t *models.GrowthTask) string {
			return fmt.Sprintf("what questions do customers ask about %s", strings.ToLower(t.Service))
		},
	},
	{
		matches: func(title string) bool { return ContainsAny(title, "cost", "price", "pricing", "how much") },
		question: func(t *models.GrowthTask) string {
			q := fmt.Sprintf("how much does %s cost", strings.ToLower(t.Service))
			if t.Location != "" {
				q += " in " + strings.ToLower(t.Location)
			}
			return q
		},
	},
	{
		matches: func(title string) bool { return ContainsAny(title, "process", "how we", "how to", "step by step", "what to expect") },
		question: func(t *models.GrowthTask) string {
			return fmt.Sprintf("how does %s work", strings.ToLower(t.Service))
		},
	},
	{
		matches: func(title string) bool { return ContainsAny(title, " vs ", "compare", "comparison", "versus") },
		question: func(t *models.GrowthTask) string {
			return fmt.Sprintf("how do %s options compare", strings.ToLower(t.Service))
		},
	},
	{
		matches: func(title string) bool { return ContainsAny(title, "case study", "results", "project", "before and after") },
		question: func(t *models.GrowthTask) string {
			return fmt.Sprintf("what results does %s deliver", strings.ToLower(t.Service))
		},
	},
	{
		matches: func(title string) bool { return ContainsAny(title, "checklist", "guide", "tips") },
		question: func(t *models.GrowthTask) string {
			return fmt.Sprintf("what should customers know about %s", strings.ToLower(t.Service))
		},
	},
}

// PrimaryQuestion derives the one question a task's page answers. Money
// pages answer the "who provides X in Y" question; everything else falls
// through the ordered rule table, then to a normalized form of the title.
func PrimaryQuestion(t *models.GrowthTask) string {
	for _, rule := range questionRules {
		if rule.matches(t.Title) {
			return rule.question(t)
		}
	}

	if t.Role == models.RoleMoney {
		q := fmt.Sprintf("who provides %s", strings.ToLower(t.Service))
		if t.Location != "" {
			q += " in " + strings.ToLower(t.Location)
		}
		return q
	}

	return strings.ToLower(strings.TrimSpace(t.Title))
}

// IsFAQTask reports whether a task is FAQ-classified; at most one FAQ task
// per service survives resolution.
func IsFAQTask(t *models.GrowthTask) bool {
	return ContainsAny(t.Title, "faq", "question")
}
