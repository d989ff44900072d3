package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vendabot/vendabot/internal/schema"
	"github.com/vendabot/vendabot/internal/skills"
)

// scriptedProvider returns queued responses in order and records every call.
type scriptedProvider struct {
	responses []schema.LLMResponse
	errs      []error
	calls     []providerCall
}

type providerCall struct {
	messages schema.Messages
	tools    []map[string]any
}

func (p *scriptedProvider) Chat(_ context.Context, messages schema.Messages, tools []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	p.calls = append(p.calls, providerCall{messages: messages, tools: tools})
	i := len(p.calls) - 1
	if i < len(p.errs) && p.errs[i] != nil {
		return schema.LLMResponse{}, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return schema.LLMResponse{}, errors.New("no scripted response")
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

type stubKnowledge struct {
	items []schema.KnowledgeItem
	err   error
}

func (k *stubKnowledge) Search(context.Context, string, string, int, string) (schema.SearchResult, error) {
	if k.err != nil {
		return schema.SearchResult{}, k.err
	}
	return schema.SearchResult{Items: k.items, TotalFound: len(k.items)}, nil
}

type recordingSkill struct {
	name   string
	result schema.SkillResult
	calls  []map[string]any
}

func (s *recordingSkill) Name() string        { return s.name }
func (s *recordingSkill) Description() string { return "test" }
func (s *recordingSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{}}`)
}
func (s *recordingSkill) Execute(_ context.Context, args map[string]any) (schema.SkillResult, error) {
	s.calls = append(s.calls, args)
	return s.result, nil
}

func textResponse(text string) schema.LLMResponse {
	return schema.LLMResponse{Content: &text, FinishReason: "stop"}
}

func toolResponse(content *string, calls ...schema.ToolCallRequest) schema.LLMResponse {
	return schema.LLMResponse{Content: content, ToolCalls: calls, FinishReason: "tool_calls"}
}

func newTestEngine(provider schema.LLMProvider, knowledge schema.KnowledgeSearcher, skillList ...schema.Skill) *Engine {
	dispatcher := skills.NewDispatcher(skills.NewCatalog(skillList...), 0, nil)
	return New(provider, knowledge, dispatcher, NewPromptBuilder(""), Settings{
		Model:         "test-model",
		MaxTokens:     512,
		Temperature:   0.2,
		HistoryWindow: 10,
	}, nil)
}

func TestPlainTextTurn(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("Olá! Como posso ajudar?")}}
	eng := newTestEngine(provider, &stubKnowledge{})

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Oi, tudo bem?", schema.NewMessages())

	if turn.Response != "Olá! Como posso ajudar?" {
		t.Fatalf("response = %q", turn.Response)
	}
	if len(turn.SkillsUsed) != 0 {
		t.Fatalf("plain text turn must not report skills, got %v", turn.SkillsUsed)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("plain text turn must make exactly one model call, made %d", len(provider.calls))
	}
}

func TestSkillTurnGroundsSecondCall(t *testing.T) {
	search := &recordingSkill{
		name: "search_products",
		result: schema.SkillResult{
			Success: true,
			Data:    map[string]any{"title": "Plano Pro", "price": 99.9},
			Message: "found Plano Pro at R$99.90/month",
		},
	}
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(nil, schema.ToolCallRequest{
			ID: "call_1", Name: "search_products", RawArguments: `{"query":"Plano Pro"}`,
		}),
		textResponse("O Plano Pro custa R$ 99,90 por mês."),
	}}
	eng := newTestEngine(provider, &stubKnowledge{}, search)

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Quanto custa o Plano Pro?", schema.NewMessages())

	if turn.Response != "O Plano Pro custa R$ 99,90 por mês." {
		t.Fatalf("response = %q", turn.Response)
	}
	if len(turn.SkillsUsed) != 1 || turn.SkillsUsed[0] != "search_products" {
		t.Fatalf("skills used = %v", turn.SkillsUsed)
	}
	if len(search.calls) != 1 || search.calls[0]["query"] != "Plano Pro" {
		t.Fatalf("skill saw args %v", search.calls)
	}

	if len(provider.calls) != 2 {
		t.Fatalf("skill turn must make two model calls, made %d", len(provider.calls))
	}
	if provider.calls[1].tools != nil {
		t.Fatal("grounded call must not offer tools")
	}

	// The second call must carry the assistant tool-call message and the
	// matching tool result.
	second := provider.calls[1].messages.Messages
	var sawToolResult bool
	for _, msg := range second {
		if msg.Role == "tool" && msg.ToolCallID == "call_1" {
			sawToolResult = true
			if !strings.Contains(msg.Text(), "Plano Pro") {
				t.Fatalf("tool result message = %q", msg.Text())
			}
		}
	}
	if !sawToolResult {
		t.Fatal("grounded call must include the tool result message")
	}
}

func TestFirstCallFailureReturnsApology(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("connection refused")}}
	eng := newTestEngine(provider, &stubKnowledge{})

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Oi", schema.NewMessages())

	if turn.Response != apologyMessage {
		t.Fatalf("response = %q, want apology", turn.Response)
	}
	if turn.Error == "" {
		t.Fatal("aborted turn must carry the error")
	}
	if len(turn.SkillsUsed) != 0 {
		t.Fatalf("aborted turn must not report skills, got %v", turn.SkillsUsed)
	}
}

func TestSecondCallFailureKeepsExecutionTrace(t *testing.T) {
	skill := &recordingSkill{name: "save_lead_info", result: schema.SkillResult{Success: true, Message: "saved"}}
	provider := &scriptedProvider{
		responses: []schema.LLMResponse{
			toolResponse(nil, schema.ToolCallRequest{ID: "c1", Name: "save_lead_info", RawArguments: `{"name":"Ana"}`}),
		},
		errs: []error{nil, errors.New("rate limited")},
	}
	eng := newTestEngine(provider, &stubKnowledge{}, skill)

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Meu nome é Ana", schema.NewMessages())

	if turn.Response != apologyMessage {
		t.Fatalf("response = %q, want apology", turn.Response)
	}
	if turn.Error == "" {
		t.Fatal("failed grounded call must carry the error")
	}
	// The skill really ran; its execution must stay visible.
	if len(turn.SkillsUsed) != 1 || turn.SkillsUsed[0] != "save_lead_info" {
		t.Fatalf("skills used = %v", turn.SkillsUsed)
	}
}

func TestUnknownSkillIsSkipped(t *testing.T) {
	content := "Posso te ajudar com isso."
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(&content, schema.ToolCallRequest{ID: "c1", Name: "rm_rf_slash", RawArguments: `{}`}),
	}}
	eng := newTestEngine(provider, &stubKnowledge{})

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Oi", schema.NewMessages())

	if len(turn.SkillsUsed) != 0 {
		t.Fatalf("unknown skill must not appear in SkillsUsed, got %v", turn.SkillsUsed)
	}
	if turn.Response != content {
		t.Fatalf("response = %q", turn.Response)
	}
	if len(provider.calls) != 1 {
		t.Fatal("all-skipped turn must not make a grounded call")
	}
}

func TestMalformedArgumentsSkipOnlyThatCall(t *testing.T) {
	good := &recordingSkill{name: "get_lead_history", result: schema.SkillResult{Success: true, Message: "2 interactions"}}
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(nil,
			schema.ToolCallRequest{ID: "c1", Name: "get_lead_history", RawArguments: `{"broken":`},
			schema.ToolCallRequest{ID: "c2", Name: "get_lead_history", RawArguments: `{}`},
		),
		textResponse("Você já falou conosco antes."),
	}}
	eng := newTestEngine(provider, &stubKnowledge{}, good)

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Já falamos antes?", schema.NewMessages())

	if len(turn.SkillsUsed) != 1 {
		t.Fatalf("exactly one call must execute, got %v", turn.SkillsUsed)
	}
	if len(good.calls) != 1 {
		t.Fatalf("skill executed %d times", len(good.calls))
	}

	// The wire exchange must only contain the executed call.
	second := provider.calls[1].messages.Messages
	for _, msg := range second {
		if msg.Role == "assistant" && len(msg.ToolCalls) > 0 {
			if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].ID != "c2" {
				t.Fatalf("assistant tool calls = %+v", msg.ToolCalls)
			}
		}
		if msg.Role == "tool" && msg.ToolCallID == "c1" {
			t.Fatal("skipped call must not have a tool result")
		}
	}
}

func TestFailedSkillResultIsDataNotAbort(t *testing.T) {
	flaky := &recordingSkill{
		name:   "create_payment_link",
		result: schema.SkillResult{Success: false, Message: "payment provider: HTTP 503"},
	}
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(nil, schema.ToolCallRequest{ID: "c1", Name: "create_payment_link", RawArguments: `{"amount":100}`}),
		textResponse("Não consegui gerar o link agora, posso tentar de novo em instantes?"),
	}}
	eng := newTestEngine(provider, &stubKnowledge{}, flaky)

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Me manda o link", schema.NewMessages())

	if turn.Error != "" {
		t.Fatalf("skill failure must not abort the turn, got error %q", turn.Error)
	}
	if len(turn.Actions) != 1 || turn.Actions[0].Result.Success {
		t.Fatalf("actions = %+v", turn.Actions)
	}
	// The failure must be visible to the grounded call as a tool result.
	second := provider.calls[1].messages.Messages
	var sawFailure bool
	for _, msg := range second {
		if msg.Role == "tool" && strings.Contains(msg.Text(), "503") {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Fatal("grounded call must see the failure result")
	}
}

func TestKnowledgeOutageDegradesToNoGrounding(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("Oi!")}}
	eng := newTestEngine(provider, &stubKnowledge{err: errors.New("db locked")})

	turn := eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "Oi", schema.NewMessages())

	if turn.Error != "" || turn.Response != "Oi!" {
		t.Fatalf("turn = %+v", turn)
	}
	system := provider.calls[0].messages.Messages[0]
	if strings.Contains(system.Text(), "Contexto de vendas") {
		t.Fatal("failed lookup must not inject a grounding section")
	}
}

func TestGroundingAppearsInSystemPrompt(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("ok")}}
	eng := newTestEngine(provider, &stubKnowledge{items: []schema.KnowledgeItem{
		{Title: "Plano Pro", Content: "R$ 99,90/mês"},
	}})

	eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "planos?", schema.NewMessages())

	system := provider.calls[0].messages.Messages[0]
	if system.Role != "system" {
		t.Fatalf("first message role = %q", system.Role)
	}
	for _, want := range []string{"Contexto de vendas", "Plano Pro", "+5511999990000"} {
		if !strings.Contains(system.Text(), want) {
			t.Fatalf("system prompt missing %q:\n%s", want, system.Text())
		}
	}
}

func TestHistoryWindowIsBounded(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("ok")}}
	eng := newTestEngine(provider, &stubKnowledge{})

	history := schema.NewMessages()
	for i := 0; i < 50; i++ {
		history.AddUser(fmt.Sprintf("mensagem %d", i))
	}

	eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "última", schema.NewMessages())
	base := len(provider.calls[0].messages.Messages)

	eng.ProcessWithSkills(context.Background(), "ws1", "+5511999990000", "última", history)
	withHistory := len(provider.calls[1].messages.Messages)

	if withHistory-base > 10 {
		t.Fatalf("history window leaked: %d extra messages, window is 10", withHistory-base)
	}
}
