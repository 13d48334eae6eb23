package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Chaudhary-CS/Nexus/internal/logging"
	"github.com/Chaudhary-CS/Nexus/internal/refine"
	"github.com/Chaudhary-CS/Nexus/internal/report"
	"github.com/Chaudhary-CS/Nexus/internal/store"
	"github.com/Chaudhary-CS/Nexus/internal/utils"
)

const (
	maxDefaultNameLength = 100
	namingTimeout        = 30 * time.Second
)

// ProjectNamer suggests a short display name for a project idea.
type ProjectNamer interface {
	NameProject(ctx context.Context, idea string) (string, error)
}

type ProjectService struct {
	dbStore *store.SQLiteStore
	locks   *utils.KeyedMutex
	limit   int
	namer   ProjectNamer // nil in demo mode
	now     func() time.Time

	naming sync.WaitGroup
}

func NewProjectService(db *store.SQLiteStore, locks *utils.KeyedMutex, limit int, namer ProjectNamer) *ProjectService {
	return &ProjectService{
		dbStore: db,
		locks:   locks,
		limit:   limit,
		namer:   namer,
		now:     time.Now,
	}
}

func (s *ProjectService) Limit() int {
	return s.limit
}

// Usage is the owner's standing against the creation quota.
type Usage struct {
	MaxProjects     int  `json:"max_projects"`
	CurrentProjects int  `json:"current_projects"`
	CanCreate       bool `json:"can_create"`
}

func (s *ProjectService) Usage(ctx context.Context, userID string) (Usage, error) {
	n, err := s.dbStore.CountProjectsByUser(ctx, userID)
	if err != nil {
		return Usage{}, fmt.Errorf("counting projects: %w", err)
	}
	return Usage{MaxProjects: s.limit, CurrentProjects: n, CanCreate: n < s.limit}, nil
}

func (s *ProjectService) CanCreateProject(ctx context.Context, userID string) (bool, error) {
	u, err := s.Usage(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.CanCreate, nil
}

// Generate builds a report for idea and saves it as a new project. The
// quota check and the insert happen atomically.
func (s *ProjectService) Generate(ctx context.Context, userID, idea string) (*store.Project, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, invalid("project_idea", "Project idea is required")
	}

	unlock := s.locks.Lock("user:" + userID)
	defer unlock()

	now := s.now().UTC()
	project := &store.Project{
		UserID:    userID,
		Name:      defaultProjectName(idea),
		Idea:      idea,
		Report:    report.Generate(idea, now),
		CreatedAt: now,
	}

	err := s.dbStore.WithinTx(ctx, func(q *store.Queries) error {
		return q.CreateProjectWithinQuota(ctx, project, s.limit)
	})
	if err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			return nil, &QuotaExceededError{Limit: s.limit}
		}
		return nil, fmt.Errorf("saving project: %w", err)
	}

	logging.FromContext(ctx).Info("project created",
		zap.String("project_id", project.ID), zap.String("user_id", userID))

	if s.namer != nil {
		s.naming.Add(1)
		go s.generateAndSaveProjectName(context.WithoutCancel(ctx), project.ID, userID, idea)
	}
	return project, nil
}

func defaultProjectName(idea string) string {
	runes := []rune(idea)
	if len(runes) > maxDefaultNameLength {
		return string(runes[:maxDefaultNameLength]) + "..."
	}
	return idea
}

func (s *ProjectService) generateAndSaveProjectName(ctx context.Context, projectID, userID, idea string) {
	defer s.naming.Done()

	ctx, cancel := context.WithTimeout(ctx, namingTimeout)
	defer cancel()
	log := logging.FromContext(ctx).With(zap.String("project_id", projectID))

	name, err := s.namer.NameProject(ctx, idea)
	if err != nil {
		log.Warn("failed to generate project name", zap.Error(err))
		return
	}
	if name == "" {
		return
	}

	if err := s.dbStore.UpdateProjectName(ctx, projectID, userID, name); err != nil {
		log.Warn("failed to save project name", zap.String("name", name), zap.Error(err))
		return
	}
	log.Debug("project named", zap.String("name", name))
}

// Wait blocks until background naming has finished.
func (s *ProjectService) Wait() {
	s.naming.Wait()
}

// LoadOwnedProject returns ErrProjectNotFound both for a missing project and
// for one owned by somebody else.
func (s *ProjectService) LoadOwnedProject(ctx context.Context, projectID, userID string) (*store.Project, error) {
	p, err := s.dbStore.GetOwnedProject(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]store.ProjectSummary, error) {
	projects, err := s.dbStore.ListProjectsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID string) error {
	unlock := s.locks.Lock("project:" + projectID)
	defer unlock()

	err := s.dbStore.WithinTx(ctx, func(q *store.Queries) error {
		return q.DeleteProject(ctx, projectID, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// ChatResult is the outcome of one refinement message.
type ChatResult struct {
	Exchange    store.ChatExchange
	Suggestions []string
	// Report is the merged report when the exchange changed it, else nil.
	Report *report.Report
}

func (r *ChatResult) HasUpdates() bool {
	return r.Report != nil
}

// Chat classifies message, patches the project's report and records the
// exchange. The report write and the exchange append commit together or not
// at all.
func (s *ProjectService) Chat(ctx context.Context, projectID, userID, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("message", "Message is required")
	}

	unlock := s.locks.Lock("project:" + projectID)
	defer unlock()

	var result ChatResult
	err := s.dbStore.WithinTx(ctx, func(q *store.Queries) error {
		project, err := q.GetOwnedProject(ctx, projectID, userID)
		if err != nil {
			return err
		}

		intent := refine.Classify(message)
		refinement := refine.Refine(message, &project.Report, intent)

		exchange := store.ChatExchange{
			ProjectID:   project.ID,
			UserMessage: message,
			AIResponse:  refinement.ResponseText,
			Refinements: intent,
			CreatedAt:   s.now().UTC(),
		}

		if !refinement.Updates.IsEmpty() {
			merged := project.Report.Apply(refinement.Updates)
			if err := q.UpdateProjectReport(ctx, project.ID, userID, merged); err != nil {
				return err
			}
			updates := refinement.Updates
			exchange.Updates = &updates
			result.Report = &merged
		}

		if err := q.CreateChatExchange(ctx, &exchange); err != nil {
			return err
		}
		result.Exchange = exchange
		result.Suggestions = refinement.Suggestions
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("refining project: %w", err)
	}

	logging.FromContext(ctx).Info("project refined",
		zap.String("project_id", projectID),
		zap.String("category", string(result.Exchange.Refinements.Category)),
		zap.Bool("has_updates", result.HasUpdates()))
	return &result, nil
}

// Conversations lists an owned project's exchanges in creation order.
func (s *ProjectService) Conversations(ctx context.Context, projectID, userID string) ([]store.ChatExchange, error) {
	if _, err := s.LoadOwnedProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	exchanges, err := s.dbStore.ListChatExchanges(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing chat exchanges: %w", err)
	}
	return exchanges, nil
}
