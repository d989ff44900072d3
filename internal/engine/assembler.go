package engine

import (
	"github.com/vendabot/vendabot/internal/schema"
)

// executedCall pairs a dispatched tool call with its parsed arguments and
// outcome. Skipped calls never become executedCalls.
type executedCall struct {
	request schema.ToolCallRequest
	args    map[string]any
	result  schema.SkillResult
}

// assembleTurn collects the final text and the execution trace into the one
// response object callers (chat transport, audit log, UI) consume.
func assembleTurn(finalText string, executed []executedCall) schema.TurnResult {
	result := schema.TurnResult{
		Response:   finalText,
		SkillsUsed: make([]string, 0, len(executed)),
		Actions:    make([]schema.SkillExecution, 0, len(executed)),
	}
	for _, call := range executed {
		result.SkillsUsed = append(result.SkillsUsed, call.request.Name)
		result.Actions = append(result.Actions, schema.SkillExecution{
			Skill:  call.request.Name,
			Args:   call.args,
			Result: call.result,
		})
	}
	return result
}

// appendToolExchange appends the assistant's tool-call message and one
// tool-result message per executed call to the conversation, keeping the wire
// history self-consistent: calls that were skipped are absent from both.
func appendToolExchange(conversation *schema.Messages, assistantText *string, executed []executedCall) {
	toolCalls := make([]schema.ToolCall, 0, len(executed))
	for _, call := range executed {
		toolCalls = append(toolCalls, schema.ToolCall{
			ID:           call.request.ID,
			Name:         call.request.Name,
			RawArguments: call.request.RawArguments,
		})
	}
	conversation.AddAssistant(assistantText, toolCalls)

	for _, call := range executed {
		conversation.AddToolResult(call.request.ID, call.request.Name, schema.MarshalResult(call.result))
	}
}
