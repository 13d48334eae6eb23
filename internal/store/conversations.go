package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Chaudhary-CS/Nexus/internal/report"
)

// CreateChatExchange appends one exchange. Exchanges are never edited.
func (q *Queries) CreateChatExchange(ctx context.Context, e *ChatExchange) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	intentJSON, err := json.Marshal(e.Refinements)
	if err != nil {
		return fmt.Errorf("failed to marshal refinements: %w", err)
	}
	var updates sql.NullString
	if e.Updates != nil {
		b, err := json.Marshal(e.Updates)
		if err != nil {
			return fmt.Errorf("failed to marshal updates: %w", err)
		}
		updates = sql.NullString{String: string(b), Valid: true}
	}

	_, err = q.db.ExecContext(ctx, `
        INSERT INTO conversations (id, project_id, user_message, ai_response, refinements, updates, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProjectID, e.UserMessage, e.AIResponse, string(intentJSON), updates, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat exchange: %w", err)
	}
	return nil
}

// ListChatExchanges returns a project's exchanges in the order they were
// written.
func (q *Queries) ListChatExchanges(ctx context.Context, projectID string) ([]ChatExchange, error) {
	rows, err := q.db.QueryContext(ctx, `
        SELECT id, project_id, user_message, ai_response, refinements, updates, created_at
        FROM conversations WHERE project_id = ?
        ORDER BY created_at ASC, rowid ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := []ChatExchange{}
	for rows.Next() {
		var (
			e          ChatExchange
			intentJSON string
			updates    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.UserMessage, &e.AIResponse, &intentJSON, &updates, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat exchange row: %w", err)
		}
		if err := json.Unmarshal([]byte(intentJSON), &e.Refinements); err != nil {
			return nil, fmt.Errorf("chat exchange %s: decoding refinements: %w", e.ID, err)
		}
		if updates.Valid {
			p, err := report.DecodePatch([]byte(updates.String))
			if err != nil {
				return nil, fmt.Errorf("chat exchange %s: %w", e.ID, err)
			}
			e.Updates = &p
		}
		exchanges = append(exchanges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat exchanges: %w", err)
	}
	return exchanges, nil
}
