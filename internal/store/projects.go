package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Chaudhary-CS/Nexus/internal/report"
)

// CreateProjectWithinQuota inserts p only while its owner holds fewer than
// limit projects. The count and the insert are one statement, so concurrent
// callers can never push an owner past the limit. Returns ErrQuotaExceeded
// when no row was written.
func (q *Queries) CreateProjectWithinQuota(ctx context.Context, p *Project, limit int) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt

	reportJSON, err := json.Marshal(p.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	res, err := q.db.ExecContext(ctx, `
        INSERT INTO projects (id, user_id, name, idea, report, created_at, updated_at)
        SELECT ?, ?, ?, ?, ?, ?, ?
        WHERE (SELECT COUNT(*) FROM projects WHERE user_id = ?) < ?`,
		p.ID, p.UserID, p.Name, p.Idea, string(reportJSON), p.CreatedAt, p.UpdatedAt,
		p.UserID, limit)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

func (q *Queries) CountProjectsByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// GetOwnedProject loads a project by id and owner. A missing project and one
// owned by someone else are indistinguishable: both return ErrNotFound.
func (q *Queries) GetOwnedProject(ctx context.Context, projectID, userID string) (*Project, error) {
	var (
		p          Project
		reportJSON string
	)
	err := q.db.QueryRowContext(ctx, `
        SELECT id, user_id, name, idea, report, created_at, updated_at
        FROM projects WHERE id = ? AND user_id = ?`, projectID, userID).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Idea, &reportJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p.Report, err = report.Decode([]byte(reportJSON))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	return &p, nil
}

// ListProjectsByUser returns the owner's projects, newest first.
func (q *Queries) ListProjectsByUser(ctx context.Context, userID string) ([]ProjectSummary, error) {
	rows, err := q.db.QueryContext(ctx, `
        SELECT id, name, idea, created_at, updated_at
        FROM projects WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []ProjectSummary{}
	for rows.Next() {
		var p ProjectSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Idea, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectReport stores a fully merged report for an owned project.
func (q *Queries) UpdateProjectReport(ctx context.Context, projectID, userID string, r report.Report) error {
	reportJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	res, err := q.db.ExecContext(ctx,
		"UPDATE projects SET report = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		string(reportJSON), time.Now().UTC(), projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to update project report: %w", err)
	}
	return requireAffected(res)
}

func (q *Queries) UpdateProjectName(ctx context.Context, projectID, userID, name string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE projects SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		name, time.Now().UTC(), projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to update project name: %w", err)
	}
	return requireAffected(res)
}

// DeleteProject removes an owned project together with its chat exchanges.
// Run it inside WithinTx so both deletes land together.
func (q *Queries) DeleteProject(ctx context.Context, projectID, userID string) error {
	_, err := q.db.ExecContext(ctx, `
        DELETE FROM conversations
        WHERE project_id IN (SELECT id FROM projects WHERE id = ? AND user_id = ?)`,
		projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete chat exchanges: %w", err)
	}

	res, err := q.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(res)
}
