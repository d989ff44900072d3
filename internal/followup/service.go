// Package followup dispatches scheduled follow-up messages. The engine only
// persists follow-ups; this service is the single place that actually sends
// them, so a crashed gateway never loses a scheduled contact and a restarted
// one picks up where it left off.
package followup

import (
	"context"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/vendabot/vendabot/internal/bus"
	"github.com/vendabot/vendabot/internal/schema"
)

// defaultSpec scans for due follow-ups once a minute.
const defaultSpec = "@every 1m"

// Service polls the follow-up store on a cron schedule and publishes each due
// message on the outbound bus.
type Service struct {
	store   schema.FollowupStore
	b       bus.Bus
	channel string // outbound channel for dispatched follow-ups
	cron    *robfigcron.Cron
	now     func() time.Time
}

func NewService(store schema.FollowupStore, b bus.Bus, channel string) *Service {
	if channel == "" {
		channel = bus.ChannelWhatsApp
	}
	return &Service{
		store:   store,
		b:       b,
		channel: channel,
		cron:    robfigcron.New(),
		now:     time.Now,
	}
}

// Start arms the scan schedule, runs one immediate scan to drain anything
// that came due while the gateway was down, and blocks until ctx is
// cancelled.
func (s *Service) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(defaultSpec, func() { s.DispatchDue(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("followup service started", "scan", defaultSpec)

	s.DispatchDue(ctx)

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	return ctx.Err()
}

// DispatchDue sends every due follow-up exactly once: a follow-up is marked
// sent before publication, so a send failure drops the message rather than
// risking a duplicate nag.
func (s *Service) DispatchDue(ctx context.Context) {
	due, err := s.store.Due(ctx, s.now())
	if err != nil {
		slog.Error("followup scan failed", "err", err)
		return
	}

	for _, f := range due {
		if err := s.store.MarkSent(ctx, f.ID, s.now()); err != nil {
			slog.Warn("skipping followup, mark sent failed", "id", f.ID, "err", err)
			continue
		}
		s.b.PublishOutbound(bus.NewOutboundMessage(s.channel, f.CustomerPhone, f.Message))
		slog.Info("followup dispatched", "id", f.ID, "workspace", f.WorkspaceID, "customer", f.CustomerPhone)
	}
}
