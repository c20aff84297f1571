package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikron807/gem/internal/entitlement"
)

var tierNames = map[entitlement.Tier]string{
	entitlement.TierChushpan: "Чушпан",
	entitlement.TierGoy:      "Гой",
	entitlement.TierSigma:    "Сигма",
}

func (app *BotApp) BuildTierKeyboard() tgbotapi.InlineKeyboardMarkup {
	row1 := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💪 Чушпан (10)", "sub_chushpan"),
		tgbotapi.NewInlineKeyboardButtonData("🧠 Гой (20)", "sub_goy"),
	)
	row2 := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("👑 Сигма (40)", "sub_sigma"),
	)
	return tgbotapi.NewInlineKeyboardMarkup(row1, row2)
}

func (app *BotApp) buildConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Подтвердить подписку", app.confirmURL),
		),
	)
}
