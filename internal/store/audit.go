package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// TurnRecord is one audited conversational turn as read back from storage.
type TurnRecord struct {
	ID            int64     `json:"id"`
	WorkspaceID   string    `json:"workspace_id"`
	CustomerPhone string    `json:"customer_phone"`
	Message       string    `json:"message"`
	Response      string    `json:"response"`
	SkillsUsed    []string  `json:"skills_used"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Audit records every processed turn: what the customer said, what the agent
// replied, which skills ran and whether the model call failed. Audit writes
// are best effort and must never block or fail a turn.
type Audit struct {
	db *sql.DB
}

func NewAudit(db *DB) *Audit {
	return &Audit{db: db.SQL()}
}

func (a *Audit) RecordTurn(ctx context.Context, workspaceID, phone, message string, turn schema.TurnResult) error {
	skillsJSON, err := json.Marshal(turn.SkillsUsed)
	if err != nil {
		skillsJSON = []byte("[]")
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO turns (workspace_id, customer_phone, message, response, skills_used, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		workspaceID, phone, message, turn.Response, string(skillsJSON), turn.Error,
	)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// RecentTurns returns the newest turns for a customer, newest first.
func (a *Audit) RecentTurns(ctx context.Context, workspaceID, phone string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, workspace_id, customer_phone, message, response, skills_used, error, created_at
		 FROM turns WHERE workspace_id = ? AND customer_phone = ?
		 ORDER BY id DESC LIMIT ?`,
		workspaceID, phone, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var rec TurnRecord
		var skillsJSON string
		if err := rows.Scan(&rec.ID, &rec.WorkspaceID, &rec.CustomerPhone, &rec.Message,
			&rec.Response, &skillsJSON, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if err := json.Unmarshal([]byte(skillsJSON), &rec.SkillsUsed); err != nil {
			rec.SkillsUsed = nil
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
