package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run — главный цикл получения апдейтов
func (app *BotApp) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := app.bot.GetUpdatesChan(u)
	log.Printf("[bot_loop] started username=@%s", app.bot.Self.UserName)

	for update := range updates {
		tgID := extractTelegramID(update)
		if tgID == 0 {
			continue
		}

		log.Printf("[bot_touch] fromTG=%d updateID=%d", tgID, update.UpdateID)

		// один пользователь сериализуется внутри conversation,
		// разные обрабатываются параллельно
		go app.dispatchUpdate(context.Background(), tgID, update)
	}
}

func (app *BotApp) dispatchUpdate(ctx context.Context, tgID int64, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		app.handleMessage(ctx, update.Message, tgID)
	case update.CallbackQuery != nil:
		app.handleCallback(ctx, update.CallbackQuery, tgID)
	}
}

func (app *BotApp) handleMessage(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			app.handleStart(ctx, msg, tgID)
		case "verify":
			app.handleVerify(ctx, msg, tgID)
		case "stats":
			app.handleStats(ctx, msg, tgID)
		case "clear_history":
			app.handleClearHistory(ctx, msg, tgID)
		default:
			app.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Неизвестная команда. Начни с /start"))
		}
		return
	}

	if msg.Text != "" {
		app.handleText(ctx, msg, tgID)
	}
}

func extractTelegramID(u tgbotapi.Update) int64 {
	switch {
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	default:
		return 0
	}
}
