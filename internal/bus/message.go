package bus

import "time"

// Channel names. A customer identity is always a phone number (or the
// channel's closest equivalent), which is also the lead key.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
	ChannelCLI      = "cli"
	ChannelFollowup = "followup"
)

// InboundMessage is one customer message received from a chat channel.
type InboundMessage struct {
	Channel       string         // "whatsapp", "telegram", "cli"
	CustomerPhone string         // lead key; channel user id when no phone exists
	CustomerName  string         // display name if the channel provides one
	Content       string         // message text
	Timestamp     time.Time      // when the message was received
	Metadata      map[string]any // channel extras (message_id, username, ...)
}

// NewInboundMessage creates an InboundMessage stamped with the current time.
func NewInboundMessage(channel, customerPhone, content string) InboundMessage {
	return InboundMessage{
		Channel:       channel,
		CustomerPhone: customerPhone,
		Content:       content,
		Timestamp:     time.Now(),
	}
}

// SessionKey identifies the conversation this message belongs to.
func (m InboundMessage) SessionKey() string {
	return m.Channel + ":" + m.CustomerPhone
}

// Preview returns a short snippet for logging.
func (m InboundMessage) Preview() string {
	if len(m.Content) > 80 {
		return m.Content[:80] + "..."
	}
	return m.Content
}

// OutboundMessage is text to deliver through a channel: an agent reply, a
// proactive message produced by a skill, or a dispatched follow-up.
type OutboundMessage struct {
	Channel       string
	CustomerPhone string
	Content       string
	Metadata      map[string]any
}

func NewOutboundMessage(channel, customerPhone, content string) OutboundMessage {
	return OutboundMessage{
		Channel:       channel,
		CustomerPhone: customerPhone,
		Content:       content,
	}
}
