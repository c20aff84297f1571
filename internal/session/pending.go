package session

import (
	"log"
	"sync"
	"time"

	"github.com/nikron807/gem/internal/entitlement"
)

// PendingTTL — сколько живёт выбор тарифа до подтверждения через /verify.
const PendingTTL = 600 * time.Second

// Pending — выбранный, но ещё не подтверждённый тариф.
type Pending struct {
	Tier     entitlement.Tier
	ChosenAt time.Time
}

// Store — промежуточное состояние двухшаговой подписки: выбор кнопкой,
// подтверждение командой. Живёт в памяти, как и всё остальное.
type Store struct {
	mu      sync.Mutex
	pending map[int64]Pending

	now func() time.Time // подменяется в тестах
}

func NewStore() *Store {
	return &Store{
		pending: make(map[int64]Pending),
		now:     time.Now,
	}
}

func (s *Store) Set(telegramID int64, tier entitlement.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[telegramID] = Pending{Tier: tier, ChosenAt: s.now()}
}

// Take забирает ожидающий выбор. Второе значение false — выбора не было,
// третье false — выбор был, но окно подтверждения истекло (выбор при этом
// сбрасывается, пользователю придётся начать заново).
func (s *Store) Take(telegramID int64) (entitlement.Tier, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[telegramID]
	if !ok {
		return entitlement.TierNone, false, false
	}

	delete(s.pending, telegramID)

	if s.now().Sub(p.ChosenAt) > PendingTTL {
		return entitlement.TierNone, true, false
	}
	return p.Tier, true, true
}

// CleanupExpired выметает протухшие выборы, вызывается тикером из main.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, p := range s.pending {
		if now.Sub(p.ChosenAt) > PendingTTL {
			delete(s.pending, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[session] cleanup removed=%d", removed)
	}
	return removed
}
