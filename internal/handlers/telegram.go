package handlers

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StartTelegramBot runs a small helper bot that tells users the chat id
// to paste into their notification settings. Delivery itself goes
// through the dispatcher; this loop only answers setup questions.
func StartTelegramBot(botToken string) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("Telegram bot unavailable: %v", err)
		return
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil { // ignore any non-Message updates
			continue
		}

		switch update.Message.Command() {
		case "start", "chatid":
			text := fmt.Sprintf(
				"Your chat id is %d. Paste it into the Telegram field of your notification settings to receive video summaries here.",
				update.Message.Chat.ID,
			)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
			bot.Send(msg)
		default:
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Send /chatid to get the chat id for your notification settings.")
			bot.Send(msg)
		}
	}
}
