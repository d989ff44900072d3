package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vendabot/vendabot/internal/bus"
	"github.com/vendabot/vendabot/internal/config"
)

// WhatsAppChannel connects to the Node.js Baileys bridge via WebSocket. The
// bridge owns the WhatsApp session; this side only exchanges JSON frames.
type WhatsAppChannel struct {
	Base
	cfg       *config.WhatsAppConfig
	conn      *websocket.Conn
	connected bool
}

func NewWhatsAppChannel(cfg *config.WhatsAppConfig, b bus.Bus) *WhatsAppChannel {
	return &WhatsAppChannel{
		Base: NewBase(bus.ChannelWhatsApp, b, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (w *WhatsAppChannel) Name() string { return bus.ChannelWhatsApp }

// Start keeps the bridge connection alive, reconnecting every 5s on loss.
func (w *WhatsAppChannel) Start(ctx context.Context) error {
	bridgeURL := w.cfg.BridgeURL
	if bridgeURL == "" {
		bridgeURL = "ws://localhost:3001"
	}
	slog.Info("whatsapp: connecting to bridge", "url", bridgeURL)

	for {
		if err := w.connectOnce(ctx, bridgeURL); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("whatsapp: connection lost, reconnecting in 5s", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (w *WhatsAppChannel) connectOnce(ctx context.Context, url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	w.conn = conn
	w.connected = true
	defer func() { conn.Close(); w.conn = nil; w.connected = false }()

	slog.Info("whatsapp: connected to bridge")

	if w.cfg.BridgeToken != "" {
		auth, _ := json.Marshal(map[string]string{"type": "auth", "token": w.cfg.BridgeToken})
		_ = conn.WriteMessage(websocket.TextMessage, auth)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		go w.handleBridgeMessage(raw)
	}
}

func (w *WhatsAppChannel) handleBridgeMessage(raw []byte) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return
	}
	msgType, _ := data["type"].(string)
	switch msgType {
	case "message":
		sender, _ := data["sender"].(string)
		content, _ := data["content"].(string)
		name, _ := data["pushName"].(string)

		// Group chats are not sales conversations.
		if isGroup, _ := data["isGroup"].(bool); isGroup {
			return
		}

		phone := sender
		if i := strings.IndexByte(phone, '@'); i >= 0 {
			phone = phone[:i]
		}

		w.HandleMessage(phone, name, content, map[string]any{
			"message_id": data["id"],
			"jid":        sender,
		})
	case "status":
		status, _ := data["status"].(string)
		slog.Info("whatsapp: status", "status", status)
		w.connected = status == "connected"
	case "qr":
		slog.Info("whatsapp: scan QR code in the bridge terminal")
	case "error":
		slog.Error("whatsapp: bridge error", "error", data["error"])
	}
}

func (w *WhatsAppChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if w.conn == nil || !w.connected {
		return fmt.Errorf("whatsapp: bridge not connected")
	}
	to := msg.CustomerPhone
	if jid, ok := msg.Metadata["jid"].(string); ok && jid != "" {
		to = jid
	}
	payload, _ := json.Marshal(map[string]string{
		"type": "send",
		"to":   to,
		"text": msg.Content,
	})
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}
