package refine

import "github.com/Chaudhary-CS/Nexus/internal/report"

// Refinement is the canned answer to a refinement message.
type Refinement struct {
	ResponseText string
	Suggestions  []string
	Updates      report.Patch
}

type response struct {
	text        string
	suggestions []string
	// update builds the patch from the current report; nil means the
	// category never changes the report.
	update func(current *report.Report) report.Patch
}

var responses = map[Category]response{
	CategoryBudget: {
		text: "I'll help you optimize your project for budget constraints. Here are some cost-effective alternatives:",
		suggestions: []string{
			"Use free-tier cloud services (Vercel, Netlify, Firebase)",
			"Consider open-source alternatives to paid tools",
			"Start with a simpler MVP to reduce development time",
			"Use templates and pre-built components",
		},
		update: budgetUpdate,
	},
	CategoryTimeline: {
		text: "Let me help you accelerate your development timeline with these strategies:",
		suggestions: []string{
			"Use low-code/no-code solutions for rapid prototyping",
			"Implement pre-built UI component libraries",
			"Focus on core MVP features first",
			"Consider hiring freelancers for specific tasks",
		},
		update: timelineUpdate,
	},
	CategoryFeatures: {
		text: "I can help you refine your feature set. What specific features would you like to add, remove, or modify?",
		suggestions: []string{
			"Prioritize features based on user value",
			"Consider progressive feature rollout",
			"Balance complexity vs. user needs",
			"Plan for feature scalability",
		},
	},
	CategoryTechnology: {
		text: "Let's explore different technology options for your project. What specific technologies are you interested in?",
		suggestions: []string{
			"Consider your team's expertise",
			"Evaluate learning curve vs. project timeline",
			"Think about long-term maintenance",
			"Factor in community support and ecosystem",
		},
	},
	CategoryMarket: {
		text: "I'll help you dive deeper into market analysis and competitive positioning:",
		suggestions: []string{
			"Analyze specific competitor features",
			"Identify underserved market segments",
			"Research user pain points in detail",
			"Validate your unique value proposition",
		},
	},
	CategoryLearning: {
		text: "Let me customize your learning path based on your current skills and preferences:",
		suggestions: []string{
			"Assess your current skill level",
			"Set realistic learning milestones",
			"Mix theory with hands-on practice",
			"Join relevant communities for support",
		},
	},
	CategoryGeneral: {
		text: "I'm here to help refine your project roadmap. Could you be more specific about what you'd like to improve or change?",
		suggestions: []string{
			"Ask about budget optimization",
			"Request timeline adjustments",
			"Modify feature requirements",
			"Explore different technologies",
			"Dive deeper into market analysis",
			"Customize your learning path",
		},
	},
}

// budgetDeployment replaces the tech stack's deployment block for budget
// refinements.
var budgetDeployment = report.TechChoice{
	Primary:         "Vercel + PlanetScale (Free tier)",
	Reasoning:       "Optimized for budget-conscious development with generous free tiers",
	Alternatives:    []string{"Netlify + Supabase", "Firebase"},
	SupportingTools: []string{"GitHub Actions (free)", "Cloudflare (free)"},
}

// Refine answers message for the given intent. current is read only; the
// returned patch holds fresh sub-documents. A report missing the section a
// category would update yields an empty patch.
func Refine(message string, current *report.Report, intent Intent) Refinement {
	resp, ok := responses[intent.Category]
	if !ok {
		resp = responses[CategoryGeneral]
	}

	out := Refinement{
		ResponseText: resp.text,
		Suggestions:  append([]string(nil), resp.suggestions...),
	}
	if resp.update != nil && current != nil {
		out.Updates = resp.update(current)
	}
	return out
}

func budgetUpdate(current *report.Report) report.Patch {
	if current.Intelligence.TechStack == nil {
		return report.Patch{}
	}
	ts := *current.Intelligence.TechStack
	ts.Deployment = report.TechChoice{
		Primary:         budgetDeployment.Primary,
		Reasoning:       budgetDeployment.Reasoning,
		Alternatives:    append([]string(nil), budgetDeployment.Alternatives...),
		SupportingTools: append([]string(nil), budgetDeployment.SupportingTools...),
	}
	return report.Patch{TechStack: &ts}
}

func timelineUpdate(current *report.Report) report.Patch {
	if current.Roadmap == nil {
		return report.Patch{}
	}
	rm := current.Roadmap.Clone()
	for i := range rm.Phases {
		switch rm.Phases[i].ID {
		case 1:
			rm.Phases[i].Duration = "2-4 weeks"
			rm.Phases[i].Description = "Fast-track MVP development with pre-built components"
		case 2:
			rm.Phases[i].Duration = "4-8 weeks"
		}
	}
	return report.Patch{Roadmap: rm}
}
