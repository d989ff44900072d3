package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vendabot/vendabot/internal/schema"
)

// WhatsAppMessageSkill does not send anything. It validates and packages the
// outbound message and returns ActionSendWhatsAppMessage; the actual channel
// send is the caller's responsibility, keeping the engine free of transport
// concerns.
type WhatsAppMessageSkill struct{}

func NewWhatsAppMessageSkill() *WhatsAppMessageSkill { return &WhatsAppMessageSkill{} }

func (s *WhatsAppMessageSkill) Name() string { return string(SkillWhatsAppMessage) }
func (s *WhatsAppMessageSkill) Description() string {
	return "Send a WhatsApp message to a phone number. Use only for messages outside this conversation (e.g. notifying someone else); reply to the current customer with plain text."
}

func (s *WhatsAppMessageSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone": {
				"type": "string",
				"description": "Destination phone in international format, e.g. +5511999990000"
			},
			"message": {
				"type": "string",
				"description": "Message text"
			}
		},
		"required": ["message"]
	}`)
}

func (s *WhatsAppMessageSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	message, err := requireString(args, "message")
	if err != nil {
		return schema.SkillResult{}, err
	}

	phone := stringArg(args, "phone")
	if phone == "" {
		phone = TurnCtx(ctx).CustomerPhone
	}
	if err := validatePhone(phone); err != nil {
		return schema.SkillResult{}, err
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"phone": phone, "message": message},
		Message: "message queued for " + phone,
		Action:  schema.ActionSendWhatsAppMessage,
	}, nil
}

func validatePhone(phone string) error {
	trimmed := strings.TrimPrefix(phone, "+")
	if trimmed == "" {
		return fmt.Errorf("missing destination phone")
	}
	if len(trimmed) < 8 || len(trimmed) > 15 {
		return fmt.Errorf("invalid phone number %q", phone)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid phone number %q", phone)
		}
	}
	return nil
}
