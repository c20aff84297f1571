package entitlement

import (
	"log"
	"sort"
	"sync"
	"time"
)

type store struct {
	mu    sync.Mutex
	users map[int64]*UserRecord
}

func NewStore() Store {
	return &store{users: make(map[int64]*UserRecord)}
}

// getOrCreateLocked — вызывать только под мьютексом.
func (s *store) getOrCreateLocked(telegramID int64) *UserRecord {
	u, ok := s.users[telegramID]
	if !ok {
		u = &UserRecord{}
		s.users[telegramID] = u
	}
	return u
}

func (s *store) GetOrCreate(telegramID int64) UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getOrCreateLocked(telegramID)
}

// Activate — жёсткий сброс: новая подписка обнуляет счётчик,
// даже если старая ещё не исчерпана.
func (s *store) Activate(telegramID int64, tier Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.users[telegramID] = &UserRecord{
		Tier:        tier,
		ActivatedAt: &now,
	}
	log.Printf("[entitlement] tgID=%d activated tier=%s limit=%d", telegramID, tier, Limit(tier))
}

// RecordUsage — +1 к использованным ответам. Для незнакомого пользователя
// молча ничего не делает: это защита, а не валидация.
func (s *store) RecordUsage(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[telegramID]
	if !ok {
		return
	}
	u.ResponsesUsed++
}

func (s *store) CanRespond(telegramID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getOrCreateLocked(telegramID)
	if u.Tier == TierNone {
		return false
	}
	return u.ResponsesUsed < Limit(u.Tier)
}

func (s *store) Remaining(telegramID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getOrCreateLocked(telegramID)
	if u.Tier == TierNone {
		return 0
	}
	left := Limit(u.Tier) - u.ResponsesUsed
	if left < 0 {
		return 0
	}
	return left
}

func (s *store) StatsFor(telegramID int64) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getOrCreateLocked(telegramID)
	return statsOf(telegramID, u)
}

func (s *store) ListUsers() []Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Stats, 0, len(s.users))
	for id, u := range s.users {
		out = append(out, statsOf(id, u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TelegramID < out[j].TelegramID })
	return out
}

func statsOf(telegramID int64, u *UserRecord) Stats {
	limit := Limit(u.Tier)
	left := limit - u.ResponsesUsed
	if left < 0 {
		left = 0
	}
	return Stats{
		TelegramID: telegramID,
		Tier:       string(u.Tier),
		Used:       u.ResponsesUsed,
		Limit:      limit,
		Remaining:  left,
	}
}
