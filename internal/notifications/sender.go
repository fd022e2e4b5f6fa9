package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Minimum interval between two messages to the chat; Telegram answers 429
// above roughly 30 messages a minute.
const sendInterval = 2 * time.Second

// TelegramSender posts messages to one chat.
// Nil-safe: when not configured, all methods are no-ops.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramSender creates a sender and verifies the token with getMe.
// Returns nil, nil if token or chatID is empty (notifications disabled).
func NewTelegramSender(token string, chatID int64, logger *slog.Logger) (*TelegramSender, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	logger.Info("Telegram sender initialized", "bot", bot.Self.UserName, "chat_id", chatID)
	return &TelegramSender{bot: bot, chatID: chatID, logger: logger}, nil
}

// Send posts text to the configured chat, spacing consecutive messages by
// sendInterval.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if s == nil {
		return nil // no-op when not configured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if wait := sendInterval - time.Since(s.lastSend); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	s.lastSend = time.Now()
	return nil
}
