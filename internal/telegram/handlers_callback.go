package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikron807/gem/internal/entitlement"
)

func (app *BotApp) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, tgID int64) {
	chatID := cb.Message.Chat.ID
	data := cb.Data

	// всегда отвечаем Telegram
	app.bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	log.Printf("[callback] tgID=%d data=%s", tgID, data)

	if strings.HasPrefix(data, "sub_") {
		tier := entitlement.Tier(strings.TrimPrefix(data, "sub_"))
		name, ok := tierNames[tier]
		if !ok {
			err := fmt.Errorf("unknown tier in callback: %s", data)
			app.ErrorNotify.Notify(ctx, err, "Неизвестный тариф в callback")
			app.bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Произошла ошибка."))
			return
		}

		app.Pending.Set(tgID, tier)
		log.Printf("[callback] tgID=%d chose tier=%s", tgID, tier)

		edit := tgbotapi.NewEditMessageText(
			chatID,
			cb.Message.MessageID,
			fmt.Sprintf("📌 Подписка: %s\n\nНажми кнопку → вернись → /verify", name),
		)
		kb := app.buildConfirmKeyboard()
		edit.ReplyMarkup = &kb
		app.bot.Send(edit)
		return
	}

	err := fmt.Errorf("unknown callback data: %s", data)
	app.ErrorNotify.Notify(ctx, err, "Неизвестный callback")
	app.bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Произошла ошибка."))
}
