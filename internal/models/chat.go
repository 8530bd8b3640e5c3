package models

import "time"

// Chat представляет одну запись истории вопрос-ответ.
type Chat struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"-"`
	Module    string    `json:"module"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyQuestion используется для приёма вопроса из JSON-запроса.
// BirthDetails переопределяют данные из профиля пользователя.
type DummyQuestion struct {
	Question     string        `json:"question" validate:"required,max=2000"`
	BirthDetails *BirthDetails `json:"birth_details,omitempty"`
}
