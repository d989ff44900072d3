package schema

import "testing"

func TestPendingActionsFiltersFailuresAndActionless(t *testing.T) {
	turn := TurnResult{
		Actions: []SkillExecution{
			{
				Skill:  "search_products",
				Result: SkillResult{Success: true},
			},
			{
				Skill:  "create_payment_link",
				Result: SkillResult{Success: false, Action: ActionSendPaymentLink},
			},
			{
				Skill:  "send_whatsapp_message",
				Result: SkillResult{Success: true, Action: ActionSendWhatsAppMessage},
			},
			{
				Skill:  "schedule_followup",
				Result: SkillResult{Success: true, Action: ActionFollowupScheduled},
			},
		},
	}

	pending := turn.PendingActions()
	if len(pending) != 2 {
		t.Fatalf("pending = %+v", pending)
	}
	// Order is dispatch order; a failed payment link must never reach the
	// notifier, and an actionless result has nothing to perform.
	if pending[0].Skill != "send_whatsapp_message" || pending[1].Skill != "schedule_followup" {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestPendingActionsEmptyTurn(t *testing.T) {
	if got := (TurnResult{}).PendingActions(); got != nil {
		t.Fatalf("empty turn must have no pending actions, got %+v", got)
	}
}
