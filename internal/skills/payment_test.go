package skills

import (
	"context"
	"errors"
	"testing"

	"github.com/vendabot/vendabot/internal/schema"
)

type fakeGateway struct {
	payment schema.Payment
	status  schema.PaymentStatus
	err     error

	createdReqs []schema.PaymentRequest
}

func (g *fakeGateway) CreatePayment(_ context.Context, req schema.PaymentRequest) (schema.Payment, error) {
	g.createdReqs = append(g.createdReqs, req)
	if g.err != nil {
		return schema.Payment{}, g.err
	}
	return g.payment, nil
}

func (g *fakeGateway) GetStatus(context.Context, string, string) (schema.PaymentStatus, error) {
	if g.err != nil {
		return schema.PaymentStatus{}, g.err
	}
	return g.status, nil
}

func turnContext() context.Context {
	return WithTurn(context.Background(), TurnContext{
		WorkspaceID:   "ws1",
		CustomerPhone: "+5511999990000",
	})
}

func TestPaymentLinkCarriesTurnIdentity(t *testing.T) {
	gw := &fakeGateway{payment: schema.Payment{ID: "pay_1", Link: "https://pay/x", Status: "pending"}}
	s := NewPaymentLinkSkill(gw)

	result, err := s.Execute(turnContext(), map[string]any{
		"customer_name": "Ana",
		"amount":        99.9,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Action != schema.ActionSendPaymentLink {
		t.Fatalf("action = %q", result.Action)
	}
	if result.Data["link"] != "https://pay/x" {
		t.Fatalf("data = %v", result.Data)
	}

	req := gw.createdReqs[0]
	if req.WorkspaceID != "ws1" || req.CustomerPhone != "+5511999990000" {
		t.Fatalf("request missing turn identity: %+v", req)
	}
	if req.IdempotencyKey == "" {
		t.Fatal("idempotency key must be set")
	}
}

func TestPaymentLinkFreshIdempotencyKeyPerCall(t *testing.T) {
	gw := &fakeGateway{payment: schema.Payment{ID: "p", Link: "l", Status: "pending"}}
	s := NewPaymentLinkSkill(gw)

	args := map[string]any{"customer_name": "Ana", "amount": 10.0}
	if _, err := s.Execute(turnContext(), args); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Execute(turnContext(), args); err != nil {
		t.Fatal(err)
	}
	if gw.createdReqs[0].IdempotencyKey == gw.createdReqs[1].IdempotencyKey {
		t.Fatal("each invocation must carry its own idempotency key")
	}
}

func TestPaymentLinkValidation(t *testing.T) {
	s := NewPaymentLinkSkill(&fakeGateway{})

	if _, err := s.Execute(turnContext(), map[string]any{"amount": 10.0}); err == nil {
		t.Fatal("missing customer_name must error")
	}
	if _, err := s.Execute(turnContext(), map[string]any{"customer_name": "Ana", "amount": -5.0}); err == nil {
		t.Fatal("negative amount must error")
	}
	// Validation failures must not reach the gateway.
	gw := &fakeGateway{}
	s = NewPaymentLinkSkill(gw)
	_, _ = s.Execute(turnContext(), map[string]any{"amount": 10.0})
	if len(gw.createdReqs) != 0 {
		t.Fatal("invalid call must not hit the gateway")
	}
}

func TestPaymentGatewayErrorBecomesError(t *testing.T) {
	s := NewPaymentLinkSkill(&fakeGateway{err: errors.New("HTTP 503")})

	_, err := s.Execute(turnContext(), map[string]any{"customer_name": "Ana", "amount": 10.0})
	if err == nil {
		t.Fatal("gateway failure must surface as error for the sandbox")
	}
}

func TestDescribeStatus(t *testing.T) {
	cases := []struct {
		status string
		action schema.Action
	}{
		{"approved", schema.ActionPaymentConfirmed},
		{"paid", schema.ActionPaymentConfirmed},
		{"confirmed", schema.ActionPaymentConfirmed},
		{"rejected", schema.ActionPaymentPending},
		{"cancelled", schema.ActionPaymentPending},
		{"pending", schema.ActionPaymentPending},
		{"whatever", schema.ActionPaymentPending},
	}
	for _, tc := range cases {
		_, action := describeStatus(tc.status)
		if action != tc.action {
			t.Errorf("describeStatus(%q) action = %q, want %q", tc.status, action, tc.action)
		}
	}
}

func TestPaymentStatusSkill(t *testing.T) {
	gw := &fakeGateway{status: schema.PaymentStatus{Status: "approved", Value: 99.9}}
	s := NewPaymentStatusSkill(gw)

	result, err := s.Execute(turnContext(), map[string]any{"payment_id": "pay_1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Action != schema.ActionPaymentConfirmed {
		t.Fatalf("action = %q", result.Action)
	}
	if result.Data["value"] != 99.9 {
		t.Fatalf("data = %v", result.Data)
	}
}
