package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
}

func NewInfra(bot *tgbotapi.BotAPI, adminChatID int64) *Infra {
	return &Infra{bot: bot, adminChatID: adminChatID}
}

// SetBot — позволяет передать бота ПОСЛЕ того, как он инициализировался
func (i *Infra) SetBot(bot *tgbotapi.BotAPI) {
	i.bot = bot
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.bot == nil || i.adminChatID == 0 {
		log.Printf("[notify] admin channel not configured, err=%v details=%s", err, details)
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	msg := tgbotapi.NewMessage(i.adminChatID, text)

	_, sendErr := i.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[notify] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}
