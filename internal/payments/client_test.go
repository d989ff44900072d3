package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vendabot/vendabot/internal/schema"
)

func TestCreatePaymentSendsIdempotencyKey(t *testing.T) {
	var gotKey, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(schema.Payment{
			ID:     "pay_123",
			Link:   "https://pay.example.com/pay_123",
			Status: "pending",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	payment, err := client.CreatePayment(context.Background(), schema.PaymentRequest{
		WorkspaceID:    "ws1",
		CustomerName:   "Ana",
		CustomerPhone:  "+5511999990000",
		Amount:         99.9,
		Description:    "Plano Pro",
		IdempotencyKey: "idem-abc",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if payment.ID != "pay_123" || payment.Link == "" {
		t.Fatalf("payment = %+v", payment)
	}
	if gotKey != "idem-abc" {
		t.Fatalf("Idempotency-Key = %q", gotKey)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody["amount"] != 99.9 || gotBody["description"] != "Plano Pro" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestCreatePaymentRejectsIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "pay_123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	_, err := client.CreatePayment(context.Background(), schema.PaymentRequest{Amount: 10})
	if err == nil {
		t.Fatal("payment without link must be rejected")
	}
}

func TestProviderErrorEnvelopeIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	_, err := client.CreatePayment(context.Background(), schema.PaymentRequest{Amount: 10})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "payment provider: HTTP 402: card declined" {
		t.Fatalf("err = %q", got)
	}
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/pay_123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("workspace_id") != "ws1" {
			t.Errorf("workspace_id = %q", r.URL.Query().Get("workspace_id"))
		}
		_ = json.NewEncoder(w).Encode(schema.PaymentStatus{Status: "approved", Value: 99.9})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	status, err := client.GetStatus(context.Background(), "ws1", "pay_123")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Status != "approved" || status.Value != 99.9 {
		t.Fatalf("status = %+v", status)
	}
}
