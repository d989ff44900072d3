// Package bus decouples chat channels from the sales agent. Channels publish
// InboundMessages; the agent consumes them, runs a turn and publishes
// OutboundMessages back for the channel manager to route. Outbound traffic is
// not limited to replies: follow-up dispatch and skill side effects publish
// here too.
package bus

// Bus is the contract between chat channels and the agent core.
type Bus interface {
	PublishInbound(msg InboundMessage)
	PublishOutbound(msg OutboundMessage)
	// InboundChan is consumed by the agent.
	InboundChan() <-chan InboundMessage
	// OutboundChan is consumed by the channel manager.
	OutboundChan() <-chan OutboundMessage
}

// MessageBus is the in-process Bus backed by buffered Go channels, so senders
// do not block on a momentarily slow consumer.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
}

func NewMessageBus(bufSize int) Bus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, bufSize),
		outbound: make(chan OutboundMessage, bufSize),
	}
}

func (b *MessageBus) PublishInbound(msg InboundMessage)   { b.inbound <- msg }
func (b *MessageBus) PublishOutbound(msg OutboundMessage) { b.outbound <- msg }

func (b *MessageBus) InboundChan() <-chan InboundMessage   { return b.inbound }
func (b *MessageBus) OutboundChan() <-chan OutboundMessage { return b.outbound }
