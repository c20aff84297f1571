package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikron807/gem/internal/conversation"
	"github.com/nikron807/gem/internal/entitlement"
)

func (app *BotApp) handleStart(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	log.Printf("[start] tgID=%d", tgID)

	user := app.Entitlement.GetOrCreate(tgID)

	var status string
	if user.Tier != entitlement.TierNone {
		remain := app.Entitlement.Remaining(tgID)
		status = fmt.Sprintf("✅ Подписка: %s\n📊 Осталось: %d", tierNames[user.Tier], remain)
	} else {
		status = "❌ Нет активной подписки"
	}

	out := tgbotapi.NewMessage(
		msg.Chat.ID,
		fmt.Sprintf("🔥 ВЫСШИЙ ИНТЕЛЛЕКТ\n\n%s\n\n⚡ Выбери подписку:", status),
	)
	out.ReplyMarkup = app.BuildTierKeyboard()
	app.bot.Send(out)
}

func (app *BotApp) handleVerify(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	log.Printf("[verify] tgID=%d", tgID)

	tier, had, valid := app.Pending.Take(tgID)
	if !had {
		app.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Сначала выбери подписку: /start"))
		return
	}
	if !valid {
		app.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "⏰ Время истекло. Начни заново: /start"))
		return
	}

	app.Entitlement.Activate(tgID, tier)

	app.bot.Send(tgbotapi.NewMessage(
		msg.Chat.ID,
		fmt.Sprintf(
			"✅ ПОДПИСКА АКТИВИРОВАНА! ✓\n\n🎯 Тип: %s\n📊 Доступные ответы: %d\n\n🚀 Теперь ты можешь задавать вопросы!",
			tierNames[tier],
			entitlement.Limit(tier),
		),
	))
}

func (app *BotApp) handleText(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	chatID := msg.Chat.ID
	question := msg.Text

	log.Printf("[text] start tgID=%d qlen=%d", tgID, len(question))

	app.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))

	answer, err := app.Conversation.Ask(ctx, tgID, question)

	switch {
	case err == nil:
		remain := app.Entitlement.Remaining(tgID)
		app.bot.Send(tgbotapi.NewMessage(
			chatID,
			fmt.Sprintf("%s\n\n━━━━━━━━━━━━━━━━━━━\n📊 Осталось ответов: %d", answer, remain),
		))

	case errors.Is(err, conversation.ErrNoSubscription):
		app.bot.Send(tgbotapi.NewMessage(chatID, "❌ У тебя нет подписки!\n\nВыбери план: /start"))

	case errors.Is(err, conversation.ErrQuotaExhausted):
		user := app.Entitlement.GetOrCreate(tgID)
		limit := entitlement.Limit(user.Tier)
		app.bot.Send(tgbotapi.NewMessage(
			chatID,
			fmt.Sprintf("📊 Лимит исчерпан!\n\nИспользовано: %d/%d\n\nОбновить подписку: /start", limit, limit),
		))

	default:
		// BackendUnavailable / EmptyResponse / Backend — для пользователя
		// всё одно: попробуй ещё раз
		log.Printf("[text] ask fail tgID=%d: %v", tgID, err)
		app.bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Ошибка при получении ответа. Попробуй ещё раз."))
	}
}

func (app *BotApp) handleStats(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	st := app.Entitlement.StatsFor(tgID)

	var info string
	if st.Tier != "" {
		info = fmt.Sprintf(
			"✅ Подписка: %s\n📊 Использовано: %d/%d\n📈 Осталось: %d",
			tierNames[entitlement.Tier(st.Tier)], st.Used, st.Limit, st.Remaining,
		)
	} else {
		info = "❌ Подписка не активна"
	}

	app.bot.Send(tgbotapi.NewMessage(
		msg.Chat.ID,
		fmt.Sprintf("🧠 СТАТИСТИКА:\n\n%s\n\n🚀 Gemini API\n⚙️ Ассоциативный синтез", info),
	))
}

func (app *BotApp) handleClearHistory(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	app.Conversation.ClearHistory(tgID)
	app.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "🗑️ История диалога очищена"))
}
