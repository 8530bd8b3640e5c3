package models

import "time"

const (
	// FreeQuestions количество бесплатных вопросов по каждому модулю
	// при регистрации.
	FreeQuestions = 3
	// UnlimitedSentinel значение questions_remaining после покупки
	// безлимита по модулю. Само значение никогда не списывается.
	UnlimitedSentinel = 999
)

// Entitlement представляет права пользователя на вопросы по одному модулю.
type Entitlement struct {
	ID                 int       // Идентификатор строки
	UserUID            string    // Владелец
	Module             string    // Модуль консультаций
	QuestionsRemaining int       // Остаток вопросов
	IsPremium          bool      // Куплен ли безлимит по модулю
	UpdatedAt          time.Time // Дата последнего изменения
}

// ModuleStatus статус модуля в ответе API. QuestionsRemaining — число
// для бесплатного тарифа или строка "unlimited" для премиума.
type ModuleStatus struct {
	QuestionsRemaining any  `json:"questions_remaining"`
	IsPremium          bool `json:"is_premium"`
}
