package channels

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vendabot/vendabot/internal/bus"
	"github.com/vendabot/vendabot/internal/config"
)

// TelegramChannel runs the Telegram bot via long polling. The customer's
// numeric chat ID doubles as the lead key when no phone number is shared.
type TelegramChannel struct {
	Base
	cfg    *config.TelegramConfig
	bot    *tgbotapi.BotAPI
	typing sync.Map // chat ID -> context.CancelFunc for the typing loop
}

func NewTelegramChannel(cfg *config.TelegramConfig, b bus.Bus) *TelegramChannel {
	return &TelegramChannel{
		Base: NewBase(bus.ChannelTelegram, b, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (t *TelegramChannel) Name() string { return bus.ChannelTelegram }

func (t *TelegramChannel) Start(ctx context.Context) error {
	if t.cfg.Token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.handleUpdate(ctx, update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" {
		return
	}

	content := msg.Text
	if content == "" && msg.Caption != "" {
		content = msg.Caption
	}
	if content == "" {
		return
	}

	// Contact shares carry the customer's real phone number; prefer it as
	// the lead key over the synthetic chat ID.
	customerPhone := fmt.Sprintf("tg-%d", msg.Chat.ID)
	if msg.Contact != nil && msg.Contact.PhoneNumber != "" {
		customerPhone = msg.Contact.PhoneNumber
	}

	senderID := strconv.FormatInt(msg.From.ID, 10)
	if msg.From.UserName != "" {
		senderID = senderID + "|" + msg.From.UserName
	}
	if !t.IsAllowed(senderID) {
		slog.Warn("access denied", "channel", "telegram", "sender", senderID)
		return
	}

	t.startTyping(ctx, msg.Chat.ID)

	inbound := bus.NewInboundMessage(bus.ChannelTelegram, customerPhone, content)
	inbound.CustomerName = msg.From.FirstName
	inbound.Metadata = map[string]any{
		"chat_id":    msg.Chat.ID,
		"message_id": msg.MessageID,
		"username":   msg.From.UserName,
	}
	t.b.PublishInbound(inbound)
}

// startTyping shows the typing indicator until the reply for this chat goes
// out (stopTyping), the 2-minute cap expires, or the channel shuts down. A
// new inbound message for the same chat restarts the loop.
func (t *TelegramChannel) startTyping(ctx context.Context, chatID int64) {
	typingCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if prev, ok := t.typing.Swap(chatID, cancel); ok {
		prev.(context.CancelFunc)()
	}
	go t.sendTypingLoop(typingCtx, chatID)
}

func (t *TelegramChannel) stopTyping(chatID int64) {
	if cancel, ok := t.typing.LoadAndDelete(chatID); ok {
		cancel.(context.CancelFunc)()
	}
}

func (t *TelegramChannel) sendTypingLoop(ctx context.Context, chatID int64) {
	for {
		if t.bot != nil {
			_, _ = t.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
		}
		select {
		case <-time.After(4 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}

func (t *TelegramChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if t.bot == nil {
		return fmt.Errorf("telegram: bot not running")
	}
	chatID, err := outboundChatID(msg)
	if err != nil {
		return err
	}
	t.stopTyping(chatID)

	for _, chunk := range splitMessage(msg.Content, 4000) {
		m := tgbotapi.NewMessage(chatID, chunk)
		if _, err := t.bot.Send(m); err != nil {
			return fmt.Errorf("telegram: send: %w", err)
		}
	}
	return nil
}

// outboundChatID recovers the numeric chat ID from the message metadata or
// from the synthetic "tg-<id>" lead key.
func outboundChatID(msg bus.OutboundMessage) (int64, error) {
	if raw, ok := msg.Metadata["chat_id"]; ok {
		switch v := raw.(type) {
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		}
	}
	key := msg.CustomerPhone
	if len(key) > 3 && key[:3] == "tg-" {
		key = key[3:]
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram: cannot derive chat id from %q", msg.CustomerPhone)
	}
	return id, nil
}
