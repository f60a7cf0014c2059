package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// MessageSender is the part of tgbotapi.BotAPI the telegram sender
// needs. It can be mocked for testing.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender delivers notifications to a telegram chat. The bot is
// constructed once at startup and injected; there is no module-level
// bot instance.
type TelegramSender struct {
	bot MessageSender
}

func NewTelegramSender(bot MessageSender) *TelegramSender {
	return &TelegramSender{bot: bot}
}

func (s *TelegramSender) Send(ctx context.Context, destination string, video models.ChannelLatestVideo, summary string) error {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", destination, err)
	}

	msg := tgbotapi.NewMessage(chatID, FormatMessage(video, summary))
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
