// Package engine implements the tool-orchestration core: it mediates between
// the model's function-calling interface and the skill catalog so the agent
// can act while it talks. One turn spans at most two model calls: a first
// call that may request skills, and a grounded second call that turns the
// actual skill outcomes into the user-facing reply.
package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vendabot/vendabot/internal/metrics"
	"github.com/vendabot/vendabot/internal/schema"
	"github.com/vendabot/vendabot/internal/skills"
)

// apologyMessage is the fixed reply when the model itself is unreachable,
// the only failure that aborts a turn instead of degrading it.
const apologyMessage = "Desculpe, estou com uma instabilidade técnica neste momento. Pode tentar de novo em alguns instantes?"

// groundingLimit caps how many knowledge items feed the system prompt.
const groundingLimit = 5

// Settings are the per-engine model parameters.
type Settings struct {
	Model         string
	MaxTokens     int
	Temperature   float64
	HistoryWindow int // max prior messages sent to the model
}

// Engine drives one conversational turn. It holds no per-turn state and is
// safe for concurrent use across customers.
type Engine struct {
	provider   schema.LLMProvider
	knowledge  schema.KnowledgeSearcher
	dispatcher *skills.Dispatcher
	prompts    *PromptBuilder
	settings   Settings
	metrics    *metrics.Metrics
}

// New creates an Engine. metrics may be nil.
func New(
	provider schema.LLMProvider,
	knowledge schema.KnowledgeSearcher,
	dispatcher *skills.Dispatcher,
	prompts *PromptBuilder,
	settings Settings,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		provider:   provider,
		knowledge:  knowledge,
		dispatcher: dispatcher,
		prompts:    prompts,
		settings:   settings,
		metrics:    m,
	}
}

// AvailableSkills exposes the catalog for introspection.
func (e *Engine) AvailableSkills() []schema.SkillDescriptor {
	return e.dispatcher.Catalog().Descriptors()
}

// ProcessWithSkills runs one full turn. It never panics and never returns an
// error: every failure below the first model call is folded into the result.
func (e *Engine) ProcessWithSkills(
	ctx context.Context,
	workspaceID, customerPhone, message string,
	history schema.Messages,
) schema.TurnResult {
	ctx = skills.WithTurn(ctx, skills.TurnContext{
		WorkspaceID:   workspaceID,
		CustomerPhone: customerPhone,
	})

	grounding := e.lookupContext(ctx, workspaceID, message)
	conversation := e.prompts.BuildMessages(grounding, customerPhone, history.Tail(e.settings.HistoryWindow), message)
	opts := schema.NewChatOptions(e.settings.Model, e.settings.MaxTokens, e.settings.Temperature)

	first, err := e.provider.Chat(ctx, conversation, e.dispatcher.Catalog().Definitions(), opts)
	e.metrics.ObserveModelCall("first", err)
	if err != nil {
		slog.Error("model call failed", "workspace", workspaceID, "err", err)
		e.metrics.ObserveTurn(true)
		return schema.TurnResult{
			Response:   apologyMessage,
			SkillsUsed: []string{},
			Error:      err.Error(),
		}
	}

	if !first.HasToolCalls() {
		e.metrics.ObserveTurn(false)
		return assembleTurn(textOrEmpty(first.Content), nil)
	}

	executed := e.dispatchAll(ctx, first.ToolCalls)
	if len(executed) == 0 {
		// Every requested call was skipped (unknown skill or malformed
		// arguments); treat as a plain text turn.
		e.metrics.ObserveTurn(false)
		return assembleTurn(textOrEmpty(first.Content), nil)
	}

	// Second call: original context + the assistant's tool-call message +
	// one tool-result message per executed call. No tool list, so the grounded
	// reply must be text.
	appendToolExchange(&conversation, first.Content, executed)
	grounded, err := e.provider.Chat(ctx, conversation, nil, opts)
	e.metrics.ObserveModelCall("grounded", err)
	if err != nil {
		slog.Error("grounded model call failed", "workspace", workspaceID, "err", err)
		e.metrics.ObserveTurn(true)
		res := assembleTurn(apologyMessage, executed)
		res.Error = err.Error()
		return res
	}

	e.metrics.ObserveTurn(false)
	return assembleTurn(textOrEmpty(grounded.Content), executed)
}

// lookupContext fetches grounding text from the knowledge collaborator.
// Failure here degrades gracefully to an empty context; it never aborts the
// turn and is never surfaced to the user.
func (e *Engine) lookupContext(ctx context.Context, workspaceID, query string) string {
	res, err := e.knowledge.Search(ctx, workspaceID, query, groundingLimit, "")
	if err != nil {
		slog.Warn("context lookup failed, proceeding without grounding", "workspace", workspaceID, "err", err)
		return ""
	}
	if len(res.Items) == 0 {
		return ""
	}

	var b strings.Builder
	for _, item := range res.Items {
		b.WriteString("- ")
		b.WriteString(item.Title)
		if item.Content != "" {
			b.WriteString(": ")
			b.WriteString(item.Content)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// dispatchAll routes the model's tool calls through the dispatcher,
// sequentially and in request order: several skills mutate shared external
// state and the model may rely on one call's outcome when arguing the next.
// Unknown skills are never dispatched; unparsable arguments skip only the
// offending call.
func (e *Engine) dispatchAll(ctx context.Context, calls []schema.ToolCallRequest) []executedCall {
	var executed []executedCall
	for _, call := range calls {
		if !e.dispatcher.Known(call.Name) {
			slog.Warn("ignoring unknown skill requested by model", "skill", call.Name)
			continue
		}
		args, err := skills.ParseArgs(call.RawArguments)
		if err != nil {
			slog.Warn("skipping tool call with malformed arguments", "skill", call.Name, "err", err)
			continue
		}
		result := e.dispatcher.Execute(ctx, call.Name, args)
		executed = append(executed, executedCall{request: call, args: args, result: result})
	}
	return executed
}

func textOrEmpty(content *string) string {
	if content == nil {
		return ""
	}
	return *content
}
