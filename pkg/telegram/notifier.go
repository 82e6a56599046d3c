package telegram

import (
	"fmt"
	"strconv"

	"kis-trading/config"
	"kis-trading/pkg/logger"

	"gopkg.in/telebot.v3"
)

// Notifier pushes trade notifications to a single telegram chat.
// A nil Notifier is valid and drops every message, so callers do not
// need to branch on whether alerts are configured.
type Notifier struct {
	bot    *telebot.Bot
	chatID int64
	log    *logger.Logger
}

// NewNotifier creates a Notifier, or returns nil when no bot token is configured.
func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, nil
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", cfg.ChatID, err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: chatID, log: log}, nil
}

// NotifyTrade sends a one-line trade alert. Failures are logged, never returned:
// a dropped alert must not interrupt the trading loop.
func (n *Notifier) NotifyTrade(action, code, name string, quantity, price int64, success bool, message string) {
	if n == nil {
		return
	}

	status := "OK"
	if !success {
		status = "FAILED"
	}
	text := fmt.Sprintf("[%s] %s %s(%s) %d shares @ %d KRW\n%s",
		status, action, name, code, quantity, price, message)

	if _, err := n.bot.Send(telebot.ChatID(n.chatID), text); err != nil {
		n.log.Warn("Failed to send telegram trade alert", logger.ErrorField(err))
	}
}
