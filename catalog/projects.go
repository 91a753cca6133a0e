package catalog

import (
	"context"
	"slices"
	"strconv"
	"time"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive     Status = "active"
	StatusArchived   Status = "archived"
	StatusInProgress Status = "in-progress"
)

// Project is one entry of the project catalog.
type Project struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Tech        []string `json:"tech"`
	Repo        string   `json:"repo,omitempty"`
	Demo        string   `json:"demo,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Year        string   `json:"year,omitempty"`
	Status      Status   `json:"status,omitempty"`
	// Category is one of web, mobile, api, tool, library; empty when unset.
	Category string `json:"category,omitempty"`
}

// Projects is a fixed, compiled-in project catalog.
type Projects struct {
	personal []Project
	work     []Project
}

// NewProjects builds a catalog from personal and work projects.
func NewProjects(personal, work []Project) *Projects {
	return &Projects{
		personal: slices.Clone(personal),
		work:     slices.Clone(work),
	}
}

// DefaultProjects returns the site's project catalog.
func DefaultProjects() *Projects {
	return NewProjects(personalProjects(), workProjects())
}

// Projects returns every project, newest year first. Projects from the same
// year keep catalog order, personal before work.
func (p *Projects) Projects(_ context.Context) ([]Project, error) {
	return p.All(), nil
}

// All returns every project, newest year first.
func (p *Projects) All() []Project {
	all := make([]Project, 0, len(p.personal)+len(p.work))
	all = append(all, p.personal...)
	all = append(all, p.work...)
	slices.SortStableFunc(all, func(a, b Project) int {
		return yearOf(b) - yearOf(a)
	})
	return all
}

// ByCategory returns the projects of one category, newest first.
func (p *Projects) ByCategory(category string) []Project {
	var out []Project
	for _, project := range p.All() {
		if project.Category == category {
			out = append(out, project)
		}
	}
	return out
}

// Featured returns up to four active projects, newest first.
func (p *Projects) Featured() []Project {
	var out []Project
	for _, project := range p.All() {
		if project.Status != StatusActive {
			continue
		}
		out = append(out, project)
		if len(out) == 4 {
			break
		}
	}
	return out
}

// BySlug looks a project up by slug.
func (p *Projects) BySlug(slug string) (Project, bool) {
	for _, project := range p.All() {
		if project.Slug == slug {
			return project, true
		}
	}
	return Project{}, false
}

// yearOf parses the project year, treating missing or malformed years as 0.
func yearOf(p Project) int {
	y, err := strconv.Atoi(p.Year)
	if err != nil {
		return 0
	}
	return y
}

func personalProjects() []Project {
	return []Project{
		{
			Slug:        "portfolio",
			Name:        "Portfolio Platform",
			Description: "Modern, accessible, dark-mode aware personal site built with the Next.js App Router and performance-focused patterns.",
			Highlights: []string{
				"App Router + incremental SEO (robots, sitemap, JSON-LD)",
				"Accessibility upgrades (skip link, reduced-motion fallbacks)",
				"Reusable animation + counter primitives",
				"Command palette for enhanced navigation",
				"Blog system with MDX support",
			},
			Tech:     []string{"Next.js 15", "TypeScript", "Tailwind CSS", "Framer Motion", "MDX"},
			Repo:     "https://github.com/leegutierrez7/lysandergutierrez-website",
			Demo:     "https://lysandergutierrez.com",
			Icon:     "🌐",
			Year:     strconv.Itoa(time.Now().Year()),
			Status:   StatusActive,
			Category: "web",
		},
		{
			Slug:        "ai-chat",
			Name:        "AI Chat Application",
			Description: "Real-time chat interface integrating LLM responses with conversation context retention.",
			Highlights: []string{
				"Streaming token UX with real-time responses",
				"Conversation persistence layer",
				"Prompt/response latency optimizations",
				"Multi-model support (GPT, Claude, etc.)",
				"Custom RAG implementation",
			},
			Tech:     []string{"React", "OpenAI API", "WebSockets", "Node.js", "PostgreSQL"},
			Icon:     "🤖",
			Year:     "2024",
			Status:   StatusInProgress,
			Category: "web",
		},
		{
			Slug:        "nasa-mission-tracker",
			Name:        "NASA Mission Tracker",
			Description: "Real-time tracking dashboard for NASA missions with live telemetry data visualization.",
			Highlights: []string{
				"Live telemetry data integration",
				"Interactive 3D visualization",
				"Real-time mission status updates",
				"Multi-mission support",
				"Mobile-responsive design",
			},
			Tech:     []string{"React", "Three.js", "Python", "NASA APIs", "WebGL"},
			Icon:     "🚀",
			Year:     "2024",
			Status:   StatusActive,
			Category: "web",
		},
		{
			Slug:        "microservices-api",
			Name:        "Microservices API Gateway",
			Description: "Scalable API gateway built with Go, featuring load balancing, rate limiting, and service discovery.",
			Highlights: []string{
				"High-performance Go implementation",
				"Automatic service discovery",
				"Rate limiting and circuit breaker patterns",
				"Comprehensive monitoring and logging",
				"Docker containerization",
			},
			Tech:     []string{"Go", "Docker", "Kubernetes", "Redis", "Prometheus"},
			Repo:     "https://github.com/leegutierrez7/api-gateway",
			Icon:     "⚡",
			Year:     "2023",
			Status:   StatusActive,
			Category: "api",
		},
		{
			Slug:        "fintech-dashboard",
			Name:        "FinTech Analytics Dashboard",
			Description: "Comprehensive financial analytics platform with real-time market data and trading insights.",
			Highlights: []string{
				"Real-time market data integration",
				"Advanced charting and visualization",
				"Portfolio performance tracking",
				"Risk assessment algorithms",
				"Secure authentication and authorization",
			},
			Tech:     []string{"Next.js", "TypeScript", "D3.js", "Python", "AWS"},
			Icon:     "📊",
			Year:     "2023",
			Status:   StatusArchived,
			Category: "web",
		},
		{
			Slug:        "cli-deployment-tool",
			Name:        "CLI Deployment Tool",
			Description: "Command-line tool for automated application deployment across multiple cloud providers.",
			Highlights: []string{
				"Multi-cloud support (AWS, GCP, Azure)",
				"Infrastructure as Code integration",
				"Automated rollback capabilities",
				"Configuration validation",
				"Deployment pipeline orchestration",
			},
			Tech:     []string{"Go", "Terraform", "AWS CLI", "GitHub Actions"},
			Repo:     "https://github.com/leegutierrez7/deploy-cli",
			Icon:     "🛠️",
			Year:     "2023",
			Status:   StatusActive,
			Category: "tool",
		},
	}
}

func workProjects() []Project {
	return []Project{
		{
			Slug:        "flight-operations-system",
			Name:        "Flight Operations Management System",
			Description: "Enterprise system for managing flight operations, crew scheduling, and aircraft maintenance at NASA.",
			Highlights: []string{
				"Real-time flight tracking and monitoring",
				"Crew scheduling optimization algorithms",
				"Maintenance tracking and compliance",
				"Integration with FAA systems",
				"High availability and disaster recovery",
			},
			Tech:     []string{"Java", "Spring Boot", "Oracle DB", "Angular", "Apache Kafka"},
			Icon:     "✈️",
			Year:     "2024",
			Status:   StatusActive,
			Category: "web",
		},
		{
			Slug:        "financial-risk-api",
			Name:        "Financial Risk Assessment API",
			Description: "High-performance API for real-time financial risk assessment and fraud detection at Capital One.",
			Highlights: []string{
				"Sub-100ms response times",
				"Machine learning integration",
				"Real-time fraud detection",
				"Compliance with financial regulations",
				"Scalable microservices architecture",
			},
			Tech:     []string{"Python", "FastAPI", "TensorFlow", "Kubernetes", "PostgreSQL"},
			Icon:     "🏦",
			Year:     "2023",
			Status:   StatusActive,
			Category: "api",
		},
	}
}
