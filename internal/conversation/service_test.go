package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nikron807/gem/internal/entitlement"
)

type CompleterMock struct{ mock.Mock }

func (m *CompleterMock) Ready() bool {
	return m.Called().Bool(0)
}

func (m *CompleterMock) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, err error, details string) error { return nil }

func newTestService(completer *CompleterMock) (Manager, entitlement.Store) {
	ent := entitlement.NewStore()
	return NewService(completer, ent, noopNotifier{}), ent
}

func historyLen(m Manager, telegramID int64) int {
	s := m.(*service)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories[telegramID])
}

func TestAsk_Success(t *testing.T) {
	completer := &CompleterMock{}
	completer.On("Ready").Return(true)
	completer.On("Complete", mock.Anything, mock.Anything).Return("Гормоны решают всё.", nil).Once()

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierChushpan)

	answer, err := svc.Ask(context.Background(), 1, "как жить?")
	require.NoError(t, err)
	assert.Equal(t, "Гормоны решают всё.", answer)

	// ровно две реплики и ровно одна единица квоты
	assert.Equal(t, 2, historyLen(svc, 1))
	assert.Equal(t, 9, ent.Remaining(1))
	completer.AssertExpectations(t)
}

func TestAsk_NoSubscription(t *testing.T) {
	completer := &CompleterMock{}
	svc, _ := newTestService(completer)

	_, err := svc.Ask(context.Background(), 1, "вопрос")
	assert.ErrorIs(t, err, ErrNoSubscription)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAsk_QuotaExhausted_BeforeBackendCall(t *testing.T) {
	completer := &CompleterMock{}
	completer.On("Ready").Return(true)
	completer.On("Complete", mock.Anything, mock.Anything).Return("ответ", nil)

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierChushpan)

	for i := 0; i < 10; i++ {
		_, err := svc.Ask(context.Background(), 1, fmt.Sprintf("вопрос %d", i))
		require.NoError(t, err)
	}
	require.Equal(t, 0, ent.Remaining(1))

	_, err := svc.Ask(context.Background(), 1, "одиннадцатый")
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	completer.AssertNumberOfCalls(t, "Complete", 10)
}

func TestAsk_BackendUnavailable(t *testing.T) {
	completer := &CompleterMock{}
	completer.On("Ready").Return(false)

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierGoy)

	_, err := svc.Ask(context.Background(), 1, "вопрос")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

	// отказ ничего не испортил
	assert.Equal(t, 0, historyLen(svc, 1))
	assert.Equal(t, 20, ent.Remaining(1))
}

func TestAsk_EmptyResponse_NoMutation(t *testing.T) {
	completer := &CompleterMock{}
	completer.On("Ready").Return(true)
	completer.On("Complete", mock.Anything, mock.Anything).Return("   ", nil).Once()

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierChushpan)
	svc.AppendTurn(1, RoleUser, "старый вопрос")

	_, err := svc.Ask(context.Background(), 1, "вопрос")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	assert.Equal(t, 1, historyLen(svc, 1))
	assert.Equal(t, 10, ent.Remaining(1))
}

func TestAsk_TransportFault_NoMutation(t *testing.T) {
	completer := &CompleterMock{}
	completer.On("Ready").Return(true)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("context deadline exceeded")).Once()

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierChushpan)

	_, err := svc.Ask(context.Background(), 1, "вопрос")
	assert.ErrorIs(t, err, ErrBackend)

	assert.Equal(t, 0, historyLen(svc, 1))
	assert.Equal(t, 10, ent.Remaining(1))
}

func TestAsk_FaultIsolatedPerUser(t *testing.T) {
	completer := &CompleterMock{}
	completer.On("Ready").Return(true)
	completer.On("Complete", mock.Anything, mock.Anything).Return("ответ", nil).Once()
	completer.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("boom")).Once()

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierChushpan)
	ent.Activate(2, entitlement.TierChushpan)

	_, err := svc.Ask(context.Background(), 1, "вопрос")
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), 2, "вопрос")
	require.ErrorIs(t, err, ErrBackend)

	// сбой второго не трогает состояние первого
	assert.Equal(t, 2, historyLen(svc, 1))
	assert.Equal(t, 9, ent.Remaining(1))
}

func TestAsk_PromptContainsFullQuestion(t *testing.T) {
	longQuestion := strings.Repeat("щ", 500)

	var gotPrompt string
	completer := &CompleterMock{}
	completer.On("Ready").Return(true)
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("ответ", nil).Once()

	svc, ent := newTestService(completer)
	ent.Activate(1, entitlement.TierSigma)
	svc.AppendTurn(1, RoleUser, strings.Repeat("ы", 500))

	_, err := svc.Ask(context.Background(), 1, longQuestion)
	require.NoError(t, err)

	// вопрос целиком, история — обрезанная
	assert.Contains(t, gotPrompt, longQuestion)
	assert.Contains(t, gotPrompt, strings.Repeat("ы", 80))
	assert.NotContains(t, gotPrompt, strings.Repeat("ы", 81))
	assert.Contains(t, gotPrompt, "ВОПРОС ПОЛЬЗОВАТЕЛЯ")
}

func TestAppendTurn_CapsAt25(t *testing.T) {
	completer := &CompleterMock{}
	svc, _ := newTestService(completer)

	for i := 0; i < 30; i++ {
		svc.AppendTurn(1, RoleUser, fmt.Sprintf("turn-%d", i))
	}

	s := svc.(*service)
	require.Len(t, s.histories[int64(1)], 25)
	// остаются самые свежие, порядок сохранён
	assert.Equal(t, "turn-5", s.histories[int64(1)][0].Text)
	assert.Equal(t, "turn-29", s.histories[int64(1)][24].Text)
}

func TestContextSummary(t *testing.T) {
	completer := &CompleterMock{}
	svc, _ := newTestService(completer)

	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, "", svc.ContextSummary(99))
	})

	t.Run("last five turns only", func(t *testing.T) {
		for i := 0; i < 8; i++ {
			svc.AppendTurn(1, RoleUser, fmt.Sprintf("вопрос %d", i))
		}

		summary := svc.ContextSummary(1)
		assert.Equal(t, 5, strings.Count(summary, "▸"))
		assert.NotContains(t, summary, "вопрос 2")
		assert.Contains(t, summary, "вопрос 3")
		assert.Contains(t, summary, "вопрос 7")
	})

	t.Run("truncates to 80 runes", func(t *testing.T) {
		svc.AppendTurn(2, RoleAssistant, strings.Repeat("ж", 200))

		summary := svc.ContextSummary(2)
		assert.Contains(t, summary, "▸ Ответ: "+strings.Repeat("ж", 80)+"...")
		assert.NotContains(t, summary, strings.Repeat("ж", 81))
	})
}

func TestClearHistory(t *testing.T) {
	completer := &CompleterMock{}
	svc, _ := newTestService(completer)

	svc.AppendTurn(1, RoleUser, "вопрос")
	svc.AppendTurn(1, RoleAssistant, "ответ")
	require.NotEqual(t, "", svc.ContextSummary(1))

	svc.ClearHistory(1)
	assert.Equal(t, "", svc.ContextSummary(1))
}
