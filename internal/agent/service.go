// Package agent runs the bus-facing sales agent: it consumes inbound customer
// messages, drives one engine turn per message, performs the side effects the
// turn produced and publishes the reply.
package agent

import (
	"context"
	"log/slog"

	"github.com/vendabot/vendabot/internal/bus"
	"github.com/vendabot/vendabot/internal/engine"
	"github.com/vendabot/vendabot/internal/notify"
	"github.com/vendabot/vendabot/internal/schema"
	"github.com/vendabot/vendabot/internal/session"
	"github.com/vendabot/vendabot/internal/store"
)

// Service glues the engine to the message bus and the per-customer session
// store. Each inbound message is handled in its own goroutine; the engine is
// stateless so concurrent customers never contend.
type Service struct {
	b             bus.Bus
	engine        *engine.Engine
	sessions      *session.Manager
	audit         *store.Audit // nil disables the audit trail
	notifier      notify.Notifier
	workspaceID   string
	historyWindow int
}

func NewService(
	b bus.Bus,
	eng *engine.Engine,
	sessions *session.Manager,
	audit *store.Audit,
	notifier notify.Notifier,
	workspaceID string,
	historyWindow int,
) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Service{
		b:             b,
		engine:        eng,
		sessions:      sessions,
		audit:         audit,
		notifier:      notifier,
		workspaceID:   workspaceID,
		historyWindow: historyWindow,
	}
}

// Run consumes the inbound bus until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("sales agent started", "workspace", s.workspaceID)
	for {
		select {
		case msg := <-s.b.InboundChan():
			go s.handleMessage(ctx, msg)
		case <-ctx.Done():
			slog.Info("sales agent stopping")
			return ctx.Err()
		}
	}
}

func (s *Service) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	slog.Info("inbound message", "channel", msg.Channel, "customer", msg.CustomerPhone, "preview", msg.Preview())

	reply := s.processTurn(ctx, msg)
	if reply == "" {
		return
	}

	out := bus.NewOutboundMessage(msg.Channel, msg.CustomerPhone, reply)
	out.Metadata = msg.Metadata
	s.b.PublishOutbound(out)
}

// ProcessDirect runs one turn outside the bus (used by the chat command).
func (s *Service) ProcessDirect(ctx context.Context, customerPhone, content string) string {
	msg := bus.NewInboundMessage(bus.ChannelCLI, customerPhone, content)
	return s.processTurn(ctx, msg)
}

func (s *Service) processTurn(ctx context.Context, msg bus.InboundMessage) string {
	sess := s.sessions.GetOrCreate(msg.SessionKey())
	history := sess.History(s.historyWindow)

	turn := s.engine.ProcessWithSkills(ctx, s.workspaceID, msg.CustomerPhone, msg.Content, history)

	sess.AddUser(msg.Content)
	sess.AddAssistantReply(turn.Response, turn.SkillsUsed)
	if err := s.sessions.Save(sess); err != nil {
		slog.Warn("session save failed", "key", sess.Key, "err", err)
	}

	if s.audit != nil {
		if err := s.audit.RecordTurn(ctx, s.workspaceID, msg.CustomerPhone, msg.Content, turn); err != nil {
			slog.Warn("audit write failed", "err", err)
		}
	}

	s.performActions(ctx, msg, turn.PendingActions())
	return turn.Response
}

// performActions executes the side effects the turn's skills requested. The
// engine itself never touches channels; delivery happens here so a CLI
// conversation and a WhatsApp one run the same engine code.
func (s *Service) performActions(ctx context.Context, msg bus.InboundMessage, pending []schema.SkillExecution) {
	for _, exec := range pending {
		switch exec.Result.Action {
		case schema.ActionSendWhatsAppMessage:
			phone, _ := exec.Result.Data["phone"].(string)
			text, _ := exec.Result.Data["message"].(string)
			if phone == "" || text == "" {
				continue
			}
			s.b.PublishOutbound(bus.NewOutboundMessage(bus.ChannelWhatsApp, phone, text))
		case schema.ActionPaymentConfirmed, schema.ActionSendPaymentLink:
			notify.ForAction(ctx, s.notifier, s.workspaceID, msg.CustomerPhone, exec)
		}
	}
}
