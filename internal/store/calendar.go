package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vendabot/vendabot/internal/schema"
)

// businessSlots are the bookable hours offered when a workspace has no
// calendar integration of its own.
var businessSlots = []string{
	"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00",
}

// Calendar keeps appointments in SQLite and derives availability by removing
// booked slots from the fixed business hours.
type Calendar struct {
	db *sql.DB
}

func NewCalendar(db *DB) *Calendar {
	return &Calendar{db: db.SQL()}
}

func (c *Calendar) Availability(ctx context.Context, workspaceID, date string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT time FROM appointments WHERE workspace_id = ? AND date = ?`,
		workspaceID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	booked := map[string]bool{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		booked[t] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var free []string
	for _, slot := range businessSlots {
		if !booked[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (c *Calendar) CreateAppointment(ctx context.Context, appt schema.Appointment) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO appointments (id, workspace_id, customer_name, customer_phone, date, time, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		appt.ID, appt.WorkspaceID, appt.CustomerName, appt.CustomerPhone, appt.Date, appt.Time, appt.Notes,
	)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}
