package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// LeadSaveSkill upserts lead fields keyed by the customer's phone number.
type LeadSaveSkill struct {
	store schema.LeadStore
}

func NewLeadSaveSkill(store schema.LeadStore) *LeadSaveSkill {
	return &LeadSaveSkill{store: store}
}

func (s *LeadSaveSkill) Name() string { return string(SkillSaveLead) }
func (s *LeadSaveSkill) Description() string {
	return "Save or update information about this customer (name, email, interest, budget, stage)."
}

func (s *LeadSaveSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name":     {"type": "string", "description": "Customer name"},
			"email":    {"type": "string", "description": "Customer email"},
			"interest": {"type": "string", "description": "Product or plan of interest"},
			"budget":   {"type": "string", "description": "Stated budget"},
			"stage":    {"type": "string", "description": "Sales stage, e.g. qualified, negotiating, closed"},
			"notes":    {"type": "string", "description": "Free-form notes"}
		}
	}`)
}

var leadFields = []string{"name", "email", "interest", "budget", "stage", "notes"}

func (s *LeadSaveSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	fields := make(map[string]string)
	for _, key := range leadFields {
		if v := stringArg(args, key); v != "" {
			fields[key] = v
		}
	}
	if len(fields) == 0 {
		return schema.SkillResult{}, fmt.Errorf("no lead fields provided")
	}

	tc := TurnCtx(ctx)
	if err := s.store.Upsert(ctx, tc.WorkspaceID, tc.CustomerPhone, fields); err != nil {
		return schema.SkillResult{}, fmt.Errorf("lead upsert: %w", err)
	}

	// The interaction log is best-effort; the fields are already saved.
	note := fmt.Sprintf("updated %d field(s)", len(fields))
	if err := s.store.AddInteraction(ctx, tc.WorkspaceID, tc.CustomerPhone, schema.Interaction{
		At:   time.Now(),
		Kind: "lead_update",
		Note: note,
	}); err != nil {
		slog.Warn("lead interaction log failed", "customer", tc.CustomerPhone, "err", err)
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"saved_fields": fields},
		Message: "lead information saved",
	}, nil
}

// LeadHistorySkill reads the interaction history for this customer.
type LeadHistorySkill struct {
	store schema.LeadStore
}

func NewLeadHistorySkill(store schema.LeadStore) *LeadHistorySkill {
	return &LeadHistorySkill{store: store}
}

func (s *LeadHistorySkill) Name() string { return string(SkillLeadHistory) }
func (s *LeadHistorySkill) Description() string {
	return "Get this customer's past interactions and saved information."
}

func (s *LeadHistorySkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

func (s *LeadHistorySkill) Execute(ctx context.Context, _ map[string]any) (schema.SkillResult, error) {
	tc := TurnCtx(ctx)
	history, err := s.store.History(ctx, tc.WorkspaceID, tc.CustomerPhone)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("lead history: %w", err)
	}

	entries := make([]map[string]any, 0, len(history))
	for _, it := range history {
		entries = append(entries, map[string]any{
			"at":   it.At.Format(time.RFC3339),
			"kind": it.Kind,
			"note": it.Note,
		})
	}

	msg := fmt.Sprintf("%d interaction(s) on record", len(entries))
	if len(entries) == 0 {
		msg = "new customer, no history yet"
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"interactions": entries},
		Message: msg,
	}, nil
}
