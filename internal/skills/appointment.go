package skills

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendabot/vendabot/internal/schema"
)

// defaultSlots is the stub availability answer when the calendar has no
// entries for the requested day.
var defaultSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

// AvailabilitySkill answers "when can we meet" from the calendar store.
type AvailabilitySkill struct {
	calendar schema.CalendarStore
}

func NewAvailabilitySkill(c schema.CalendarStore) *AvailabilitySkill {
	return &AvailabilitySkill{calendar: c}
}

func (s *AvailabilitySkill) Name() string { return string(SkillCheckAvailability) }
func (s *AvailabilitySkill) Description() string {
	return "Check available meeting slots on a given date."
}

func (s *AvailabilitySkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"date": {
				"type": "string",
				"description": "Date in YYYY-MM-DD format"
			}
		},
		"required": ["date"]
	}`)
}

func (s *AvailabilitySkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	date, err := requireString(args, "date")
	if err != nil {
		return schema.SkillResult{}, err
	}

	tc := TurnCtx(ctx)
	slots, err := s.calendar.Availability(ctx, tc.WorkspaceID, date)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("availability: %w", err)
	}
	if len(slots) == 0 {
		slots = defaultSlots
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"date": date, "slots": slots},
		Message: fmt.Sprintf("%d slot(s) available on %s", len(slots), date),
	}, nil
}

// AppointmentSkill persists a meeting with the customer.
type AppointmentSkill struct {
	calendar schema.CalendarStore
}

func NewAppointmentSkill(c schema.CalendarStore) *AppointmentSkill {
	return &AppointmentSkill{calendar: c}
}

func (s *AppointmentSkill) Name() string { return string(SkillCreateAppointment) }
func (s *AppointmentSkill) Description() string {
	return "Book a meeting or demo with the customer at a confirmed date and time."
}

func (s *AppointmentSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"customer_name": {"type": "string", "description": "Customer name"},
			"date":          {"type": "string", "description": "Date in YYYY-MM-DD format"},
			"time":          {"type": "string", "description": "Time in HH:MM format"},
			"notes":         {"type": "string", "description": "Purpose of the meeting"}
		},
		"required": ["date", "time"]
	}`)
}

func (s *AppointmentSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	date, err := requireString(args, "date")
	if err != nil {
		return schema.SkillResult{}, err
	}
	timeSlot, err := requireString(args, "time")
	if err != nil {
		return schema.SkillResult{}, err
	}

	tc := TurnCtx(ctx)
	appt := schema.Appointment{
		ID:            uuid.NewString(),
		WorkspaceID:   tc.WorkspaceID,
		CustomerName:  stringArg(args, "customer_name"),
		CustomerPhone: tc.CustomerPhone,
		Date:          date,
		Time:          timeSlot,
		Notes:         stringArg(args, "notes"),
	}
	if err := s.calendar.CreateAppointment(ctx, appt); err != nil {
		return schema.SkillResult{}, fmt.Errorf("create appointment: %w", err)
	}

	return schema.SkillResult{
		Success: true,
		Data: map[string]any{
			"appointment_id": appt.ID,
			"date":           date,
			"time":           timeSlot,
		},
		Message: fmt.Sprintf("appointment booked for %s at %s", date, timeSlot),
		Action:  schema.ActionAppointmentCreated,
	}, nil
}
