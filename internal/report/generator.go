package report

import (
	"strings"
	"time"
)

// Generate builds the planning report for an idea. The content is static;
// only the idea text and the timestamp vary.
func Generate(idea string, now time.Time) Report {
	tech := techStack()
	return Report{
		ProjectIdea: idea,
		GeneratedAt: now.UTC(),
		Roadmap:     roadmap(idea),
		Intelligence: Intelligence{
			Opportunity: opportunity(),
			Competitive: competitive(),
			MVP:         mvpBlueprint(),
			TechStack:   tech,
			Learning:    learningHub(tech),
		},
	}
}

func roadmap(idea string) *Roadmap {
	return &Roadmap{
		ProjectName:       idea + " - Strategic Roadmap",
		EstimatedTimeline: "6-12 months",
		Phases: []Phase{
			{
				ID:          1,
				Title:       "Market Validation & MVP",
				Duration:    "4-8 weeks",
				Description: "Validate your idea and build core features",
				KeyActivities: []string{
					"Market research and competitor analysis",
					"User interviews and feedback collection",
					"MVP feature definition and prioritization",
					"Technical architecture planning",
				},
				Deliverables: []string{"Market validation report", "MVP feature list", "Technical specifications"},
				Status:       "ready",
			},
			{
				ID:          2,
				Title:       "Development & Testing",
				Duration:    "8-16 weeks",
				Description: "Build, test, and refine your product",
				KeyActivities: []string{
					"Frontend and backend development",
					"Database design and implementation",
					"User testing and feedback integration",
					"Performance optimization",
				},
				Deliverables: []string{"Working MVP", "Test reports", "User feedback analysis"},
				Status:       "upcoming",
			},
			{
				ID:          3,
				Title:       "Launch & Growth",
				Duration:    "12+ weeks",
				Description: "Launch publicly and scale your user base",
				KeyActivities: []string{
					"Product launch strategy",
					"User acquisition campaigns",
					"Analytics and metrics tracking",
					"Feature expansion based on usage",
				},
				Deliverables: []string{"Public launch", "User acquisition metrics", "Growth strategy"},
				Status:       "future",
			},
		},
		SuccessMetrics: []string{
			"User acquisition rate",
			"Product-market fit indicators",
			"Revenue growth (if applicable)",
			"User engagement metrics",
		},
	}
}

func opportunity() *OpportunityAnalysis {
	return &OpportunityAnalysis{
		MarketSize:     "Large and growing market with significant potential",
		TargetAudience: "Identified based on market research and competitor analysis",
		PainPoints: []string{
			"Current solutions are outdated or difficult to use",
			"Lack of comprehensive features in existing products",
			"High cost barriers in current market offerings",
			"Poor user experience in competitor products",
		},
		OpportunityScore: 8.5,
		MarketTrends: []string{
			"Increasing demand for digital solutions",
			"Growing mobile-first user base",
			"Rising expectations for seamless user experience",
		},
		ValidationSources: []string{"Reddit discussions", "Industry reports", "User surveys"},
	}
}

func competitive() *CompetitiveLandscape {
	return &CompetitiveLandscape{
		DirectCompetitors: []Competitor{
			{
				Name:        "Market Leader A",
				Strengths:   []string{"Large user base", "Established brand"},
				Weaknesses:  []string{"Outdated UI", "Limited features"},
				MarketShare: "35%",
			},
			{
				Name:        "Growing Competitor B",
				Strengths:   []string{"Modern design", "Good marketing"},
				Weaknesses:  []string{"High pricing", "Limited scalability"},
				MarketShare: "20%",
			},
		},
		IndirectCompetitors: []string{
			"Alternative solution providers",
			"Manual/traditional approaches",
			"DIY tools and platforms",
		},
		CompetitiveAdvantages: []string{
			"Unique feature combination",
			"Better user experience",
			"More affordable pricing",
			"Superior technology stack",
		},
		MarketGap: "Opportunity for a more user-friendly, comprehensive solution",
	}
}

func mvpBlueprint() *MVPBlueprint {
	return &MVPBlueprint{
		CoreFeatures: []Feature{
			{Name: "User Authentication", Priority: "High", Description: "Secure user registration and login system", Effort: "1-2 weeks"},
			{Name: "Main Dashboard", Priority: "High", Description: "Central hub for user activities and data", Effort: "2-3 weeks"},
			{Name: "Core Functionality", Priority: "High", Description: "Primary value-adding features for users", Effort: "4-6 weeks"},
			{Name: "Data Management", Priority: "Medium", Description: "CRUD operations for user data", Effort: "2-3 weeks"},
		},
		NiceToHaveFeatures: []string{
			"Advanced analytics and reporting",
			"Social sharing capabilities",
			"Mobile app version",
			"Third-party integrations",
		},
		TechnicalRequirements: []string{
			"Responsive web design",
			"RESTful API architecture",
			"Database optimization",
			"Security best practices",
		},
	}
}

func techStack() *TechStack {
	return &TechStack{
		Frontend: TechChoice{
			Primary:         "React",
			Reasoning:       "Large ecosystem, excellent documentation, industry standard",
			Alternatives:    []string{"Vue.js", "Angular"},
			SupportingTools: []string{"TypeScript", "Tailwind CSS", "Vite"},
		},
		Backend: TechChoice{
			Primary:         "Node.js with Express",
			Reasoning:       "JavaScript ecosystem consistency, scalable, extensive libraries",
			Alternatives:    []string{"Python with FastAPI", "Go", "PHP with Laravel"},
			SupportingTools: []string{"JWT for auth", "Helmet for security", "Morgan for logging"},
		},
		Database: TechChoice{
			Primary:         "PostgreSQL",
			Reasoning:       "Robust, scalable, excellent for complex queries",
			Alternatives:    []string{"MongoDB", "MySQL"},
			SupportingTools: []string{"Prisma ORM", "Redis for caching"},
		},
		Deployment: TechChoice{
			Primary:         "Vercel/Netlify + Railway/Heroku",
			Reasoning:       "Easy deployment, good free tiers, scalable",
			Alternatives:    []string{"AWS", "DigitalOcean", "Google Cloud"},
			SupportingTools: []string{"Docker", "GitHub Actions", "CloudFlare"},
		},
		DevelopmentTimeline: "12-20 weeks for full stack development",
	}
}

// resourceCatalog lists learning material per technology name.
var resourceCatalog = map[string][]Resource{
	"React": {
		{Title: "Official React Documentation", URL: "https://react.dev/learn", Type: "Documentation", Rating: "★★★★★"},
		{Title: "React - The Complete Guide (Udemy)", URL: "https://www.udemy.com/course/react-the-complete-guide-incl-redux/", Type: "Course", Rating: "★★★★★"},
	},
	"Node.js": {
		{Title: "Node.js Official Guides", URL: "https://nodejs.org/en/docs/guides/", Type: "Documentation", Rating: "★★★★★"},
		{Title: "Node.js Crash Course (YouTube)", URL: "https://www.youtube.com/watch?v=fBNz5xF-Kx4", Type: "Video", Rating: "★★★★☆"},
	},
	"PostgreSQL": {
		{Title: "PostgreSQL Tutorial", URL: "https://www.postgresql.org/docs/current/tutorial.html", Type: "Documentation", Rating: "★★★★★"},
	},
}

func learningHub(tech *TechStack) *LearningHub {
	resources := make(map[string][]Resource)
	for _, primary := range []string{tech.Frontend.Primary, tech.Backend.Primary, tech.Database.Primary} {
		for name, list := range resourceCatalog {
			if strings.HasPrefix(primary, name) {
				resources[name] = append([]Resource(nil), list...)
			}
		}
	}

	return &LearningHub{
		BeginnerPath: []string{
			"Start with HTML/CSS/JavaScript fundamentals",
			"Learn React basics and component architecture",
			"Understand backend concepts with Node.js",
			"Database design with PostgreSQL",
		},
		IntermediatePath: []string{
			"Advanced React patterns and state management",
			"RESTful API design and implementation",
			"Database optimization and relationships",
			"Authentication and security practices",
		},
		AdvancedPath: []string{
			"Performance optimization techniques",
			"Microservices architecture",
			"DevOps and deployment strategies",
			"Scaling and monitoring",
		},
		ResourcesByTechnology: resources,
		EstimatedLearningTime: "6-12 months for full proficiency",
	}
}
