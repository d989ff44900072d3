package skills

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendabot/vendabot/internal/schema"
)

// PaymentLinkSkill creates a shareable payment link via the payment gateway.
// Each invocation carries a fresh idempotency key so retries on the gateway
// side cannot double-charge; the key is threaded through to the collaborator.
type PaymentLinkSkill struct {
	gateway schema.PaymentGateway
}

func NewPaymentLinkSkill(g schema.PaymentGateway) *PaymentLinkSkill {
	return &PaymentLinkSkill{gateway: g}
}

func (s *PaymentLinkSkill) Name() string { return string(SkillCreatePaymentLink) }
func (s *PaymentLinkSkill) Description() string {
	return "Create a payment link for the customer. Use when the customer agrees to buy."
}

func (s *PaymentLinkSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"customer_name": {
				"type": "string",
				"description": "Customer full name"
			},
			"amount": {
				"type": "number",
				"description": "Amount to charge"
			},
			"description": {
				"type": "string",
				"description": "What the payment is for"
			}
		},
		"required": ["customer_name", "amount"]
	}`)
}

func (s *PaymentLinkSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	name, err := requireString(args, "customer_name")
	if err != nil {
		return schema.SkillResult{}, err
	}
	amount, err := requireFloat(args, "amount")
	if err != nil {
		return schema.SkillResult{}, err
	}
	if amount <= 0 {
		return schema.SkillResult{}, fmt.Errorf("amount must be positive")
	}

	tc := TurnCtx(ctx)
	payment, err := s.gateway.CreatePayment(ctx, schema.PaymentRequest{
		WorkspaceID:    tc.WorkspaceID,
		CustomerName:   name,
		CustomerPhone:  tc.CustomerPhone,
		Amount:         amount,
		Description:    stringArg(args, "description"),
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		// The gateway's message stays in the result so the model can
		// acknowledge the failure naturally.
		return schema.SkillResult{}, fmt.Errorf("payment gateway: %w", err)
	}

	return schema.SkillResult{
		Success: true,
		Data: map[string]any{
			"payment_id": payment.ID,
			"link":       payment.Link,
			"status":     payment.Status,
			"amount":     amount,
		},
		Message: "payment link created: " + payment.Link,
		Action:  schema.ActionSendPaymentLink,
	}, nil
}

// PaymentStatusSkill maps a provider status code to a human status message and
// to the action the caller uses to decide whether to notify anyone.
type PaymentStatusSkill struct {
	gateway schema.PaymentGateway
}

func NewPaymentStatusSkill(g schema.PaymentGateway) *PaymentStatusSkill {
	return &PaymentStatusSkill{gateway: g}
}

func (s *PaymentStatusSkill) Name() string { return string(SkillPaymentStatus) }
func (s *PaymentStatusSkill) Description() string {
	return "Check whether a previously created payment was paid."
}

func (s *PaymentStatusSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"payment_id": {
				"type": "string",
				"description": "ID returned by create_payment_link"
			}
		},
		"required": ["payment_id"]
	}`)
}

func (s *PaymentStatusSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	paymentID, err := requireString(args, "payment_id")
	if err != nil {
		return schema.SkillResult{}, err
	}

	tc := TurnCtx(ctx)
	status, err := s.gateway.GetStatus(ctx, tc.WorkspaceID, paymentID)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("payment status: %w", err)
	}

	message, action := describeStatus(status.Status)
	data := map[string]any{
		"payment_id": paymentID,
		"status":     status.Status,
		"value":      status.Value,
	}
	if status.PaidAt != nil {
		data["paid_at"] = status.PaidAt.Format("2006-01-02 15:04")
	}

	return schema.SkillResult{
		Success: true,
		Data:    data,
		Message: message,
		Action:  action,
	}, nil
}

// describeStatus maps provider status codes to a human message and an action.
func describeStatus(status string) (string, schema.Action) {
	switch status {
	case "approved", "paid", "confirmed":
		return "payment confirmed", schema.ActionPaymentConfirmed
	case "rejected", "cancelled", "refunded":
		return "payment " + status, schema.ActionPaymentPending
	default:
		return "payment still pending", schema.ActionPaymentPending
	}
}
