package schema

import (
	"context"
	"time"
)

// KnowledgeItem is one unit of sales context: a product entry, a trained
// objection answer, a script fragment.
type KnowledgeItem struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Category string         `json:"category"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchResult is what a knowledge search returns. Empty Items is a valid,
// non-error outcome.
type SearchResult struct {
	Items      []KnowledgeItem `json:"items"`
	TotalFound int             `json:"total_found"`
	SearchTime time.Duration   `json:"search_time"`
}

// KnowledgeSearcher is the context/knowledge search collaborator.
// category may be "" to search everything. Callers must tolerate empty
// results; a failed lookup degrades to an empty grounding context.
type KnowledgeSearcher interface {
	Search(ctx context.Context, workspaceID, query string, limit int, category string) (SearchResult, error)
}

// PaymentRequest is the input to payment-link creation. IdempotencyKey is
// threaded through to the gateway so a duplicated tool call cannot create two
// payment links for the same intent.
type PaymentRequest struct {
	WorkspaceID    string  `json:"workspace_id"`
	CustomerName   string  `json:"customer_name"`
	CustomerPhone  string  `json:"customer_phone"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	IdempotencyKey string  `json:"-"`
}

// Payment is a created payment with its shareable link.
type Payment struct {
	ID     string `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// PaymentStatus is the current provider-side state of a payment.
type PaymentStatus struct {
	Status string     `json:"status"`
	Value  float64    `json:"value"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// PaymentGateway is the payment-creation collaborator.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (Payment, error)
	GetStatus(ctx context.Context, workspaceID, paymentID string) (PaymentStatus, error)
}

// Interaction is one entry in a lead's history.
type Interaction struct {
	At   time.Time `json:"at"`
	Kind string    `json:"kind"`
	Note string    `json:"note"`
}

// LeadStore is the lead/CRM collaborator, keyed by customer phone number.
type LeadStore interface {
	Upsert(ctx context.Context, workspaceID, phone string, fields map[string]string) error
	History(ctx context.Context, workspaceID, phone string) ([]Interaction, error)
	AddInteraction(ctx context.Context, workspaceID, phone string, interaction Interaction) error
}

// Followup is a deferred outbound message persisted by the engine and
// dispatched later by the follow-up service, never by the engine itself.
type Followup struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspace_id"`
	CustomerPhone string    `json:"customer_phone"`
	Message       string    `json:"message"`
	DueAt         time.Time `json:"due_at"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
}

// FollowupStore persists deferred follow-ups.
type FollowupStore interface {
	Schedule(ctx context.Context, f Followup) error
	Due(ctx context.Context, now time.Time) ([]Followup, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
}

// Appointment is a scheduled meeting with a customer.
type Appointment struct {
	ID            string `json:"id"`
	WorkspaceID   string `json:"workspace_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:MM
	Notes         string `json:"notes,omitempty"`
}

// CalendarStore is the calendar/appointment collaborator.
type CalendarStore interface {
	Availability(ctx context.Context, workspaceID, date string) ([]string, error)
	CreateAppointment(ctx context.Context, appt Appointment) error
}
