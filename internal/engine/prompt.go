package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// defaultPersona is the baseline sales persona; workspaces override it via
// config. Prompt *content* beyond this string is the operator's business.
const defaultPersona = `Você é um(a) consultor(a) de vendas atencioso(a) e objetivo(a).
Responda sempre no idioma do cliente. Seja honesto(a) sobre preços e prazos,
nunca invente informações sobre produtos e use as ferramentas disponíveis para
consultar o catálogo, criar cobranças e registrar dados do cliente.
Quando uma ferramenta falhar, reconheça a falha com naturalidade e ofereça uma
alternativa; nunca finja que a ação aconteceu.`

// PromptBuilder assembles the system prompt and message list for a turn.
type PromptBuilder struct {
	persona string
	now     func() time.Time
}

// NewPromptBuilder creates a PromptBuilder; persona == "" uses the default.
func NewPromptBuilder(persona string) *PromptBuilder {
	if strings.TrimSpace(persona) == "" {
		persona = defaultPersona
	}
	return &PromptBuilder{persona: persona, now: time.Now}
}

// BuildMessages builds the complete message list for the first model call:
// system prompt (persona + grounding context + customer identity), bounded
// history, then the inbound message.
func (pb *PromptBuilder) BuildMessages(
	grounding, customerPhone string,
	history schema.Messages,
	userMessage string,
) schema.Messages {
	messages := schema.NewMessages()
	messages.AddSystem(pb.systemPrompt(grounding, customerPhone))
	messages.Append(history)
	messages.AddUser(userMessage)
	return messages
}

func (pb *PromptBuilder) systemPrompt(grounding, customerPhone string) string {
	var parts []string
	parts = append(parts, pb.persona)

	parts = append(parts, fmt.Sprintf("## Data e hora\n%s", pb.now().Format("2006-01-02 15:04 (Monday)")))

	if grounding != "" {
		parts = append(parts, "## Contexto de vendas\n"+grounding)
	}

	if customerPhone != "" {
		parts = append(parts, "## Cliente\nTelefone: "+customerPhone)
	}

	return strings.Join(parts, "\n\n")
}
