// Package notify delivers internal team notifications. Customers never see
// these; they exist so a human can jump in when money moves.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	slackgo "github.com/slack-go/slack"

	"github.com/vendabot/vendabot/internal/config"
	"github.com/vendabot/vendabot/internal/schema"
)

// Notifier posts agent events to the configured Slack channel.
type Notifier interface {
	PaymentConfirmed(ctx context.Context, workspaceID, customerPhone string, data map[string]any)
	PaymentLinkSent(ctx context.Context, workspaceID, customerPhone string, data map[string]any)
}

// SlackNotifier implements Notifier with a bot token.
type SlackNotifier struct {
	client  *slackgo.Client
	channel string
}

func NewSlackNotifier(cfg *config.SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		client:  slackgo.New(cfg.BotToken),
		channel: cfg.Channel,
	}
}

func (n *SlackNotifier) PaymentConfirmed(ctx context.Context, workspaceID, customerPhone string, data map[string]any) {
	text := fmt.Sprintf(":moneybag: Pagamento confirmado (workspace %s, cliente %s)", workspaceID, customerPhone)
	if amount, ok := data["value"].(float64); ok && amount > 0 {
		text += fmt.Sprintf(" (R$ %.2f)", amount)
	}
	n.post(ctx, text)
}

func (n *SlackNotifier) PaymentLinkSent(ctx context.Context, workspaceID, customerPhone string, data map[string]any) {
	text := fmt.Sprintf(":link: Link de pagamento enviado (workspace %s, cliente %s)", workspaceID, customerPhone)
	if amount, ok := data["amount"].(float64); ok && amount > 0 {
		text += fmt.Sprintf(" (R$ %.2f)", amount)
	}
	n.post(ctx, text)
}

// post is best effort: a Slack outage must never affect a customer turn.
func (n *SlackNotifier) post(ctx context.Context, text string) {
	_, _, err := n.client.PostMessageContext(ctx, n.channel, slackgo.MsgOptionText(text, false))
	if err != nil {
		slog.Warn("slack notification failed", "err", err)
	}
}

// NopNotifier is used when Slack is not configured.
type NopNotifier struct{}

func (NopNotifier) PaymentConfirmed(context.Context, string, string, map[string]any) {}
func (NopNotifier) PaymentLinkSent(context.Context, string, string, map[string]any)  {}

// ForAction routes a pending skill action to the matching notification.
func ForAction(ctx context.Context, n Notifier, workspaceID, customerPhone string, exec schema.SkillExecution) {
	switch exec.Result.Action {
	case schema.ActionPaymentConfirmed:
		n.PaymentConfirmed(ctx, workspaceID, customerPhone, exec.Result.Data)
	case schema.ActionSendPaymentLink:
		n.PaymentLinkSent(ctx, workspaceID, customerPhone, exec.Result.Data)
	}
}
