package skills

import (
	"testing"

	"github.com/vendabot/vendabot/internal/schema"
)

func TestWhatsAppMessageSkill(t *testing.T) {
	s := NewWhatsAppMessageSkill()

	result, err := s.Execute(turnContext(), map[string]any{
		"phone":   "+5511888880000",
		"message": "Seu pedido saiu para entrega!",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Action != schema.ActionSendWhatsAppMessage {
		t.Fatalf("action = %q", result.Action)
	}
	if result.Data["phone"] != "+5511888880000" || result.Data["message"] != "Seu pedido saiu para entrega!" {
		t.Fatalf("data = %v", result.Data)
	}
}

func TestWhatsAppMessageDefaultsToCurrentCustomer(t *testing.T) {
	s := NewWhatsAppMessageSkill()

	result, err := s.Execute(turnContext(), map[string]any{"message": "oi"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Data["phone"] != "+5511999990000" {
		t.Fatalf("phone = %v", result.Data["phone"])
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+5511999990000", "5511999990000", "12345678", "123456789012345"}
	for _, phone := range valid {
		if err := validatePhone(phone); err != nil {
			t.Errorf("validatePhone(%q) = %v", phone, err)
		}
	}

	invalid := []string{"", "+", "1234567", "1234567890123456", "+55 11 99999", "abc12345678"}
	for _, phone := range invalid {
		if err := validatePhone(phone); err == nil {
			t.Errorf("validatePhone(%q) must fail", phone)
		}
	}
}
