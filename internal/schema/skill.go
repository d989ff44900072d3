// Package schema contains the core contracts shared across vendabot packages.
// Concrete implementations live in their respective packages; this package is
// the single canonical source of truth for every shared type and interface.
package schema

import (
	"context"
	"encoding/json"
)

// Action signals the caller that a side effect must be performed outside the
// engine once the turn completes (e.g. actually deliver a WhatsApp message).
type Action string

const (
	ActionNone                Action = ""
	ActionSendPaymentLink     Action = "SEND_PAYMENT_LINK"
	ActionPaymentConfirmed    Action = "PAYMENT_CONFIRMED"
	ActionPaymentPending      Action = "PAYMENT_PENDING"
	ActionSendWhatsAppMessage Action = "SEND_WHATSAPP_MESSAGE"
	ActionFollowupScheduled   Action = "FOLLOWUP_SCHEDULED"
	ActionAppointmentCreated  Action = "APPOINTMENT_CREATED"
)

// SkillResult is the outcome of a single skill execution. A failed downstream
// call is a result with Success=false, never an error that escapes the
// dispatcher; failures are conversational facts, not control flow.
type SkillResult struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Message string         `json:"message"`
	Action  Action         `json:"action,omitempty"`
}

// SkillDescriptor is the immutable declaration of one callable skill: what the
// model is permitted to request. Parameters is a JSON Schema object.
type SkillDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Skill is the interface all model-callable skills must satisfy.
// Built-in skills and Lua-scripted skills both implement this interface.
//
// Execute may return an error or panic; the dispatcher's sandbox converts
// either into SkillResult{Success:false}.
type Skill interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this skill's arguments.
	Parameters() json.RawMessage
	Execute(ctx context.Context, args map[string]any) (SkillResult, error)
}
