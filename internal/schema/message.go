package schema

import "encoding/json"

// ToolCall represents one function call in an assistant message.
// Arguments is kept as the raw JSON text the model produced; parsing it is the
// dispatcher's job because the payload is untrusted.
type ToolCall struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RawArguments string `json:"arguments"`
}

// ToWireMap serialises a ToolCall into the OpenAI wire-format map.
// Used by provider implementations when building the JSON request body.
func (tc ToolCall) ToWireMap() map[string]any {
	return map[string]any{
		"id":   tc.ID,
		"type": "function",
		"function": map[string]any{
			"name":      tc.Name,
			"arguments": tc.RawArguments,
		},
	}
}

// Message is one entry in the conversation exchanged with the model.
//
// Role is one of: "system", "user", "assistant", "tool".
// Content is the message text (nil only for assistant messages that carry
// nothing but tool calls). ToolCalls is populated for assistant messages that
// invoke skills; ToolCallID and ToolName are set on tool-result messages.
type Message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`

	// SkillsUsed is session bookkeeping only; it is never sent to the model.
	SkillsUsed []string `json:"skills_used,omitempty"`
}

func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: &content}
}

func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: &content}
}

func NewAssistantMessage(content *string, toolCalls []ToolCall) Message {
	return Message{Role: "assistant", Content: content, ToolCalls: toolCalls}
}

func NewToolResultMessage(toolCallID, toolName, result string) Message {
	return Message{Role: "tool", Content: &result, ToolCallID: toolCallID, ToolName: toolName}
}

// Text returns the message content, or "" when Content is nil.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// MarshalResult renders any value as compact JSON for a tool-result message.
func MarshalResult(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"success":false,"message":"unserialisable result"}`
	}
	return string(data)
}
