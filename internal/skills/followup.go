package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vendabot/vendabot/internal/schema"
)

// FollowupSkill persists a deferred-action record. No scheduler runs inside
// the engine; the follow-up service picks due records up later.
type FollowupSkill struct {
	store schema.FollowupStore
	now   func() time.Time
}

func NewFollowupSkill(store schema.FollowupStore) *FollowupSkill {
	return &FollowupSkill{store: store, now: time.Now}
}

func (s *FollowupSkill) Name() string { return string(SkillScheduleFollowup) }
func (s *FollowupSkill) Description() string {
	return "Schedule a follow-up message to this customer after a delay, e.g. when they ask you to come back later."
}

func (s *FollowupSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"message": {
				"type": "string",
				"description": "The follow-up message to send"
			},
			"delay_hours": {
				"type": "number",
				"description": "Hours from now (default 24)"
			}
		},
		"required": ["message"]
	}`)
}

func (s *FollowupSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	message, err := requireString(args, "message")
	if err != nil {
		return schema.SkillResult{}, err
	}
	delayHours, ok := floatArg(args, "delay_hours")
	if !ok || delayHours <= 0 {
		delayHours = 24
	}

	tc := TurnCtx(ctx)
	dueAt := s.now().Add(time.Duration(delayHours * float64(time.Hour)))
	followup := schema.Followup{
		ID:            uuid.NewString(),
		WorkspaceID:   tc.WorkspaceID,
		CustomerPhone: tc.CustomerPhone,
		Message:       message,
		DueAt:         dueAt,
	}

	if err := s.store.Schedule(ctx, followup); err != nil {
		return schema.SkillResult{}, fmt.Errorf("schedule followup: %w", err)
	}

	return schema.SkillResult{
		Success: true,
		Data: map[string]any{
			"followup_id": followup.ID,
			"due_at":      dueAt.Format(time.RFC3339),
		},
		Message: fmt.Sprintf("follow-up scheduled for %s", dueAt.Format("2006-01-02 15:04")),
		Action:  schema.ActionFollowupScheduled,
	}, nil
}
