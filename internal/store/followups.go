package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// Followups persists deferred follow-up messages. The engine only ever writes
// here; the follow-up service drains due rows and marks them sent.
type Followups struct {
	db *sql.DB
}

func NewFollowups(db *DB) *Followups {
	return &Followups{db: db.SQL()}
}

func (s *Followups) Schedule(ctx context.Context, f schema.Followup) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO followups (id, workspace_id, customer_phone, message, due_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.WorkspaceID, f.CustomerPhone, f.Message, f.DueAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("schedule followup: %w", err)
	}
	return nil
}

// Due returns unsent follow-ups whose due time has passed, oldest first.
func (s *Followups) Due(ctx context.Context, now time.Time) ([]schema.Followup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, customer_phone, message, due_at
		 FROM followups WHERE sent_at IS NULL AND due_at <= ? ORDER BY due_at`,
		now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due followups: %w", err)
	}
	defer rows.Close()

	var out []schema.Followup
	for rows.Next() {
		var f schema.Followup
		if err := rows.Scan(&f.ID, &f.WorkspaceID, &f.CustomerPhone, &f.Message, &f.DueAt); err != nil {
			return nil, fmt.Errorf("scan followup: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Followups) MarkSent(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE followups SET sent_at = ? WHERE id = ? AND sent_at IS NULL`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark followup sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("followup %s not found or already sent", id)
	}
	return nil
}
