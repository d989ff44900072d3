package channels

import (
	"context"
	"log/slog"

	"github.com/vendabot/vendabot/internal/bus"
	"github.com/vendabot/vendabot/internal/config"
)

// Manager owns the enabled channels and routes outbound messages to them.
type Manager struct {
	channels map[string]Channel
	b        bus.Bus
}

// NewManager initialises the enabled channels. withCLI registers the
// interactive terminal channel, used when the gateway runs in a terminal.
func NewManager(cfg *config.Config, b bus.Bus, withCLI bool) *Manager {
	m := &Manager{
		channels: make(map[string]Channel),
		b:        b,
	}

	if withCLI {
		m.register(NewCLIChannel(b))
	}
	if cfg.Channels.WhatsApp.Enabled {
		m.register(NewWhatsAppChannel(&cfg.Channels.WhatsApp, b))
	}
	if cfg.Channels.Telegram.Enabled {
		m.register(NewTelegramChannel(&cfg.Channels.Telegram, b))
	}
	return m
}

func (m *Manager) register(ch Channel) {
	m.channels[ch.Name()] = ch
	slog.Info("channel enabled", "name", ch.Name())
}

// EnabledChannels returns the names of the registered channels.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	return names
}

// StartAll starts every channel plus the outbound dispatcher and blocks until
// ctx is cancelled.
func (m *Manager) StartAll(ctx context.Context) error {
	go m.dispatchOutbound(ctx)

	for name, ch := range m.channels {
		go func(n string, c Channel) {
			slog.Info("starting channel", "name", n)
			if err := c.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("channel exited with error", "name", n, "err", err)
			}
		}(name, ch)
	}

	<-ctx.Done()
	return ctx.Err()
}

// dispatchOutbound routes bus outbound messages to the owning channel's Send.
func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-m.b.OutboundChan():
			ch, ok := m.channels[msg.Channel]
			if !ok {
				slog.Debug("no channel for outbound message", "channel", msg.Channel)
				continue
			}
			if err := ch.Send(ctx, msg); err != nil {
				slog.Error("send error", "channel", msg.Channel, "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
