package entitlement

import "time"

// Tier — уровень подписки. Закрытый набор, квоты фиксированы при старте.
type Tier string

const (
	TierNone     Tier = ""
	TierChushpan Tier = "chushpan"
	TierGoy      Tier = "goy"
	TierSigma    Tier = "sigma"
)

// Limits — квота ответов по тарифу. Неизвестный тариф даёт лимит 0,
// то есть доступ закрыт.
var Limits = map[Tier]int{
	TierChushpan: 10,
	TierGoy:      20,
	TierSigma:    40,
}

// Limit возвращает квоту тарифа, 0 для неизвестного.
func Limit(t Tier) int {
	return Limits[t]
}

// UserRecord — запись пользователя. Создаётся лениво при первом обращении.
type UserRecord struct {
	Tier          Tier
	ResponsesUsed int
	ActivatedAt   *time.Time
}

// Stats — сводка для /stats и админки.
type Stats struct {
	TelegramID int64  `json:"telegram_id"`
	Tier       string `json:"tier"`
	Used       int    `json:"used"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
}

// Store — единственный источник правды о том, кто и сколько ещё может
// спрашивать. Живёт в памяти процесса, создаётся один раз в main.
type Store interface {
	GetOrCreate(telegramID int64) UserRecord
	Activate(telegramID int64, tier Tier)
	RecordUsage(telegramID int64)
	CanRespond(telegramID int64) bool
	Remaining(telegramID int64) int
	StatsFor(telegramID int64) Stats
	ListUsers() []Stats
}
