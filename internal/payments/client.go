// Package payments is the HTTP client for the payment provider. It creates
// shareable payment links and reads back their status.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// Client implements schema.PaymentGateway against a REST provider. The base
// URL is injected so tests can point it at a local server.
type Client struct {
	apiBase    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiBase, apiKey string) *Client {
	return &Client{
		apiBase:    apiBase,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePayment creates a payment link. The request's IdempotencyKey goes out
// as the Idempotency-Key header so a retried or duplicated call returns the
// same payment instead of charging twice.
func (c *Client) CreatePayment(ctx context.Context, req schema.PaymentRequest) (schema.Payment, error) {
	body, err := json.Marshal(map[string]any{
		"workspace_id":   req.WorkspaceID,
		"customer_name":  req.CustomerName,
		"customer_phone": req.CustomerPhone,
		"amount":         req.Amount,
		"description":    req.Description,
	})
	if err != nil {
		return schema.Payment{}, fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return schema.Payment{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	var payment schema.Payment
	if err := c.do(httpReq, &payment); err != nil {
		return schema.Payment{}, err
	}
	if payment.ID == "" || payment.Link == "" {
		return schema.Payment{}, fmt.Errorf("payment provider returned incomplete payment")
	}
	return payment, nil
}

func (c *Client) GetStatus(ctx context.Context, workspaceID, paymentID string) (schema.PaymentStatus, error) {
	url := fmt.Sprintf("%s/v1/payments/%s?workspace_id=%s", c.apiBase, paymentID, workspaceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return schema.PaymentStatus{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var status schema.PaymentStatus
	if err := c.do(httpReq, &status); err != nil {
		return schema.PaymentStatus{}, err
	}
	return status, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("payment provider: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return providerError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("payment provider: decode response: %w", err)
	}
	return nil
}

// providerError surfaces the provider's own error message when it sends the
// usual {"error": {"message": ...}} envelope.
func providerError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("payment provider: HTTP %d: %s", status, envelope.Error.Message)
	}
	return fmt.Errorf("payment provider: HTTP %d", status)
}
