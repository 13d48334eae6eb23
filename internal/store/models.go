package store

import (
	"time"

	"github.com/Chaudhary-CS/Nexus/internal/refine"
	"github.com/Chaudhary-CS/Nexus/internal/report"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Project struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Name      string        `json:"name"`
	Idea      string        `json:"idea"`
	Report    report.Report `json:"report"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ProjectSummary is a project row without its report.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Idea      string    `json:"idea"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatExchange struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	UserMessage string        `json:"user_message"`
	AIResponse  string        `json:"ai_response"`
	Refinements refine.Intent `json:"refinements"`
	Updates     *report.Patch `json:"updates"` // nil when the exchange changed nothing
	CreatedAt   time.Time     `json:"created_at"`
}
