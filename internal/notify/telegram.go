// Package notify delivers rendered alerts to Telegram subscribers.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier sends HTML messages through the Bot API.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
}

// NewTelegramNotifier creates a notifier from a bot token.
func NewTelegramNotifier(token string, log *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return &TelegramNotifier{bot: bot, log: log}, nil
}

// Send delivers one HTML message to one user. Link previews are
// suppressed so the influencer links stay compact.
func (n *TelegramNotifier) Send(ctx context.Context, userID int64, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message to %d: %w", userID, err)
	}
	return nil
}
