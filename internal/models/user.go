// Package models содержит доменные структуры сервиса астрологических
// консультаций: пользователи, права на вопросы по модулям, подписки,
// история чатов и платежи. Здесь же определены Dummy*-структуры для
// приёма данных из JSON-запросов до их валидации.
package models

import "time"

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Имя пользователя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	BirthDate    string    // Дата рождения (как введена пользователем)
	BirthTime    string    // Время рождения
	BirthPlace   string    // Место рождения
	Gender       string    // Пол
	CreatedAt    time.Time // Дата регистрации
	UpdatedAt    time.Time // Дата последнего обновления профиля
}

// BirthDetails содержит данные рождения, которые передаются астрологическому
// провайдеру вместе с вопросом. Пустые поля допустимы.
type BirthDetails struct {
	Name       string `json:"name,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	BirthTime  string `json:"birth_time,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

// DummyProfileUpdate используется для приёма данных обновления профиля
// из JSON-запроса. Пустые поля означают "оставить как есть".
type DummyProfileUpdate struct {
	Name       string `json:"name,omitempty" validate:"omitempty,max=100"`
	BirthDate  string `json:"birth_date,omitempty" validate:"omitempty,max=50"`
	BirthTime  string `json:"birth_time,omitempty" validate:"omitempty,max=50"`
	BirthPlace string `json:"birth_place,omitempty"`
	Gender     string `json:"gender,omitempty" validate:"omitempty,max=20"`
}
