package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikron807/gem/internal/ai"
	"github.com/nikron807/gem/internal/entitlement"
	"github.com/nikron807/gem/internal/notify"
)

const (
	// жёсткий потолок хранимой истории, старое вытесняется первым
	maxHistory = 25
	// сколько последних реплик попадает в промпт
	contextTurns = 5
	// обрезка каждой реплики в дайджесте, в рунах
	turnPreview = 80

	askTimeout = 30 * time.Second
)

const personaPrompt = `Ты — Высший Интеллект, объединяющий экспертность в гормонологии, физиологии, эволюционной психологии и стратегии власти.`

const promptDivider = `═══════════════════════════════════════`

type service struct {
	completer ai.Completer
	ent       entitlement.Store
	notifier  notify.Notificator

	mu        sync.Mutex
	histories map[int64][]Turn

	// Ask одного пользователя сериализуется целиком: апдейты разных
	// пользователей обрабатываются параллельно, но read-modify-write
	// по одному пользователю не пересекается.
	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewService(
	completer ai.Completer,
	ent entitlement.Store,
	notifier notify.Notificator,
) Manager {
	return &service{
		completer: completer,
		ent:       ent,
		notifier:  notifier,
		histories: make(map[int64][]Turn),
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *service) userLock(telegramID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[telegramID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[telegramID] = l
	}
	return l
}

// === главный метод ===
func (s *service) Ask(ctx context.Context, telegramID int64, question string) (string, error) {
	lock := s.userLock(telegramID)
	lock.Lock()
	defer lock.Unlock()

	// 1) квота — до любой работы с бэкендом
	if rec := s.ent.GetOrCreate(telegramID); rec.Tier == entitlement.TierNone {
		return "", ErrNoSubscription
	}
	if !s.ent.CanRespond(telegramID) {
		return "", ErrQuotaExhausted
	}

	// 2) конфиг бэкенда
	if !s.completer.Ready() {
		log.Printf("[conversation] tgID=%d backend not configured", telegramID)
		return "", ErrBackendUnavailable
	}

	reqID := uuid.NewString()[:8]
	prompt := s.buildPrompt(telegramID, question)

	start := time.Now()
	log.Printf("[conversation] >>> ask req=%s tgID=%d qlen=%d", reqID, telegramID, len(question))

	ctxGPT, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	answer, err := s.completer.Complete(ctxGPT, prompt)
	log.Printf("[conversation][%.1fs] req=%s done err=%v", time.Since(start).Seconds(), reqID, err)

	if err != nil {
		s.notifier.Notify(ctx, err,
			fmt.Sprintf("Ошибка Gemini\nПользователь: %d\nЗапрос: %s", telegramID, reqID))
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}

	if strings.TrimSpace(answer) == "" {
		log.Printf("[conversation] req=%s empty answer tgID=%d", reqID, telegramID)
		return "", ErrEmptyResponse
	}

	// 3) успех: история, потом квота
	s.AppendTurn(telegramID, RoleUser, question)
	s.AppendTurn(telegramID, RoleAssistant, answer)
	s.ent.RecordUsage(telegramID)

	return answer, nil
}

func (s *service) buildPrompt(telegramID int64, question string) string {
	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\n")

	if ctx := s.ContextSummary(telegramID); ctx != "" {
		b.WriteString(ctx)
		b.WriteString("\n")
	}

	b.WriteString(promptDivider)
	b.WriteString("\n\n❓ ВОПРОС ПОЛЬЗОВАТЕЛЯ:\n")
	// вопрос идёт целиком, обрезается только история
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(promptDivider)
	b.WriteString("\n\n🔥 ТВОЙ ОТВЕТ (полный биологический алгоритм):")

	return b.String()
}

func (s *service) ContextSummary(telegramID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.histories[telegramID]
	if len(history) == 0 {
		return ""
	}

	if len(history) > contextTurns {
		history = history[len(history)-contextTurns:]
	}

	var b strings.Builder
	b.WriteString("КОНТЕКСТ ДИАЛОГА:\n")
	for _, t := range history {
		if t.Role == RoleUser {
			b.WriteString("▸ Вопрос: " + truncate(t.Text, turnPreview) + "\n")
		} else {
			b.WriteString("▸ Ответ: " + truncate(t.Text, turnPreview) + "...\n")
		}
	}
	return b.String()
}

func (s *service) AppendTurn(telegramID int64, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.histories[telegramID], Turn{Role: role, Text: text})
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	s.histories[telegramID] = h
}

func (s *service) ClearHistory(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[telegramID] = nil
	log.Printf("[conversation] tgID=%d history cleared", telegramID)
}

// truncate режет по рунам, чтобы не порвать кириллицу на полубайте.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
