// Package refine turns a chat message about a saved report into a
// refinement intent and a canned, typed report patch.
package refine

import "strings"

type Category string

const (
	CategoryBudget     Category = "budget"
	CategoryTimeline   Category = "timeline"
	CategoryFeatures   Category = "features"
	CategoryTechnology Category = "technology"
	CategoryMarket     Category = "market"
	CategoryLearning   Category = "learning"
	CategoryGeneral    Category = "general"
)

type Modifier string

const (
	ModifierMobileFirst Modifier = "mobile_first"
	ModifierWebFocus    Modifier = "web_focus"
	ModifierSimplify    Modifier = "simplify"
	ModifierEnhance     Modifier = "enhance"
)

// Intent is the classified meaning of a refinement message.
type Intent struct {
	Category   Category   `json:"category"`
	FocusAreas []string   `json:"focus_areas"`
	Modifiers  []Modifier `json:"modifiers"`
}

type categoryRule struct {
	category  Category
	focusArea string
	keywords  []string
}

// categoryRules is evaluated top to bottom; the first rule with a matching
// keyword decides the category.
var categoryRules = []categoryRule{
	{CategoryBudget, "cost_optimization", []string{"budget", "cost", "money", "price", "cheap", "expensive"}},
	{CategoryTimeline, "timeline_optimization", []string{"time", "faster", "quick", "timeline", "deadline"}},
	{CategoryFeatures, "feature_modification", []string{"feature", "functionality", "add", "remove", "include"}},
	{CategoryTechnology, "tech_stack_change", []string{"tech", "technology", "stack", "framework", "language"}},
	{CategoryMarket, "market_analysis", []string{"market", "competitor", "audience", "target"}},
	{CategoryLearning, "learning_path", []string{"learn", "tutorial", "course", "education", "skill"}},
}

type modifierRule struct {
	modifier Modifier
	keywords []string
}

// modifierRules are all evaluated; every match is kept.
var modifierRules = []modifierRule{
	{ModifierMobileFirst, []string{"mobile"}},
	{ModifierWebFocus, []string{"web"}},
	{ModifierSimplify, []string{"simple", "minimal"}},
	{ModifierEnhance, []string{"advanced", "complex"}},
}

// Classify maps a message to an intent. Matching is case-insensitive
// substring matching; a message matching no category is general.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	intent := Intent{Category: CategoryGeneral}
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			intent.Category = rule.category
			intent.FocusAreas = []string{rule.focusArea}
			break
		}
	}

	for _, rule := range modifierRules {
		if containsAny(lower, rule.keywords) {
			intent.Modifiers = append(intent.Modifiers, rule.modifier)
		}
	}
	return intent
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Categories lists every category in priority order, general last.
func Categories() []Category {
	out := make([]Category, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.category)
	}
	return append(out, CategoryGeneral)
}
