// Package channels provides the chat-platform integrations that feed the
// sales agent: WhatsApp (via the Baileys bridge), Telegram and an interactive
// CLI for local testing.
package channels

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vendabot/vendabot/internal/bus"
)

// Channel is one chat platform integration.
type Channel interface {
	Name() string
	// Start runs the channel's receive loop until ctx is cancelled.
	Start(ctx context.Context) error
	// Send delivers an outbound message to the customer.
	Send(ctx context.Context, msg bus.OutboundMessage) error
}

// Base holds common state and helpers shared by all channels.
type Base struct {
	channelName string
	b           bus.Bus
	allowFrom   []string // empty = allow all
}

func NewBase(name string, b bus.Bus, allowFrom []string) Base {
	return Base{channelName: name, b: b, allowFrom: allowFrom}
}

// IsAllowed checks whether the sender is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain phone number.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == senderID {
			return true
		}
	}
	if strings.Contains(senderID, "|") {
		for _, part := range strings.Split(senderID, "|") {
			if part == "" {
				continue
			}
			for _, allowed := range b.allowFrom {
				if allowed == part {
					return true
				}
			}
		}
	}
	return false
}

// HandleMessage verifies the sender, then publishes an InboundMessage.
func (b *Base) HandleMessage(customerPhone, customerName, content string, metadata map[string]any) {
	if !b.IsAllowed(customerPhone) {
		slog.Warn("access denied", "channel", b.channelName, "sender", customerPhone)
		return
	}
	msg := bus.NewInboundMessage(b.channelName, customerPhone, content)
	msg.CustomerName = customerName
	msg.Metadata = metadata
	b.b.PublishInbound(msg)
}

// splitMessage splits content into chunks that fit within maxLen, preferring
// newline breaks, then space breaks, then a hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t")
	}
	return chunks
}
