package conversation

import (
	"context"
	"errors"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn — одна реплика диалога.
type Turn struct {
	Role string
	Text string
}

// Исходы Ask. Всё, что может пойти не так с бэкендом, остаётся внутри
// менеджера: наружу уходит один из этих sentinel-ов, никаких паник
// и голых сетевых ошибок.
var (
	// ErrNoSubscription / ErrQuotaExhausted — не сбои, а штатные отказы.
	ErrNoSubscription = errors.New("no active subscription")
	ErrQuotaExhausted = errors.New("response quota exhausted")

	// ErrBackendUnavailable — ключ отсутствует или битый, запрос не делался.
	ErrBackendUnavailable = errors.New("gemini credentials missing or malformed")
	// ErrEmptyResponse — модель ответила, но текста нет. Квота не тратится.
	ErrEmptyResponse = errors.New("gemini returned empty response")
	// ErrBackend — сеть/таймаут/протокол. Квота не тратится.
	ErrBackend = errors.New("gemini request failed")
)

// Manager — скользящий контекст диалога плюс посредник перед моделью:
// каждый запрос к Gemini идёт только через Ask.
type Manager interface {
	// Ask отвечает на вопрос пользователя. Успех добавляет в историю две
	// реплики (вопрос и ответ) и списывает одну единицу квоты; любой
	// отказ или сбой не меняет ничего.
	Ask(ctx context.Context, telegramID int64, question string) (string, error)

	// AppendTurn добавляет реплику, вытесняя самые старые сверх лимита.
	AppendTurn(telegramID int64, role, text string)

	// ContextSummary — компактный дайджест последних реплик для промпта.
	// Пустая строка, если истории нет.
	ContextSummary(telegramID int64) string

	// ClearHistory очищает историю пользователя.
	ClearHistory(telegramID int64)
}
