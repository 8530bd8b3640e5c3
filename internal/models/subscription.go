package models

import "time"

// Планы подписки на весь аккаунт.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
	PlanAnnual  = "annual"
)

// Subscription представляет подписку пользователя на весь аккаунт.
// У каждого пользователя ровно одна строка, создаётся со значением free
// при регистрации.
type Subscription struct {
	ID        int        // Идентификатор строки
	UserUID   string     // Владелец (уникальный)
	Plan      string     // free, premium или annual
	StartDate time.Time  // Начало действия
	EndDate   *time.Time // Окончание действия (nil для free)
	IsActive  bool       // Активна ли подписка
	UpdatedAt time.Time  // Дата последнего изменения
}

// IsPremium сообщает, даёт ли подписка безлимитный доступ ко всем модулям.
func (s *Subscription) IsPremium() bool {
	return s != nil && (s.Plan == PlanPremium || s.Plan == PlanAnnual)
}
