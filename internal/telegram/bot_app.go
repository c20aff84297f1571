package telegram

import (
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikron807/gem/internal/conversation"
	"github.com/nikron807/gem/internal/entitlement"
	"github.com/nikron807/gem/internal/notify"
	"github.com/nikron807/gem/internal/session"
)

type BotApp struct {
	Entitlement  entitlement.Store
	Conversation conversation.Manager
	Pending      *session.Store
	ErrorNotify  notify.Notificator

	confirmURL string
	bot        *tgbotapi.BotAPI
}

func NewBotApp(
	ent entitlement.Store,
	conv conversation.Manager,
	pending *session.Store,
	errNotify notify.Notificator,
) *BotApp {
	confirmURL := os.Getenv("CONFIRM_URL")
	if confirmURL == "" {
		confirmURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	}

	return &BotApp{
		Entitlement:  ent,
		Conversation: conv,
		Pending:      pending,
		ErrorNotify:  errNotify,
		confirmURL:   confirmURL,
	}
}

func (app *BotApp) InitBot() error {
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TELEGRAM_TOKEN"))
	if err != nil {
		return err
	}

	app.bot = bot
	log.Printf("[bot_app] ready: @%s", bot.Self.UserName)
	return nil
}

func (app *BotApp) GetBot() *tgbotapi.BotAPI {
	return app.bot
}
