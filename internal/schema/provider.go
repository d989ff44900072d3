package schema

import "context"

// ChatOptions configures a single model chat request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewChatOptions builds ChatOptions from the agent settings.
func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{Model: model, MaxTokens: maxTokens, Temperature: temperature}
}

// ToolCallRequest represents one skill invocation requested by the model.
// RawArguments is untrusted text; the dispatcher parses and validates it.
type ToolCallRequest struct {
	ID           string
	Name         string
	RawArguments string
}

// LLMResponse is the normalised response from any model provider.
type LLMResponse struct {
	Content      *string // nil when the response contains only tool calls
	ToolCalls    []ToolCallRequest
	FinishReason string
	Usage        map[string]int // "prompt_tokens", "completion_tokens", "total_tokens"
}

// HasToolCalls reports whether the response contains at least one tool call.
func (r LLMResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// LLMProvider is the interface every model backend must satisfy.
// tools is the skill catalog in OpenAI function-calling format; pass nil to
// request a plain text completion.
type LLMProvider interface {
	Chat(ctx context.Context, messages Messages, tools []map[string]any, opts ChatOptions) (LLMResponse, error)
	DefaultModel() string
}
