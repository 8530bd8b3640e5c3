package aiprovider

import (
	"encoding/json"
	"fmt"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

const basePrompt = "You are an expert astrologer specializing in Vedic astrology (Jyotish)."

const closingPrompt = " Provide culturally relevant guidance based on traditional Indian astrology principles."

// modulePrompts шесть фиксированных инструкций, по одной на модуль.
var modulePrompts = map[string]string{
	"kundli":        " You analyze birth charts (kundli) to provide insights about a person's life path, personality, and potential.",
	"relationship":  " You specialize in relationship astrology, providing insights about interpersonal dynamics, compatibility, and relationship patterns.",
	"career":        " You focus on career astrology, offering guidance on professional paths, timing for career moves, and vocational aptitudes.",
	"compatibility": " You are an expert in matchmaking and compatibility analysis, assessing how two individuals' charts interact.",
	"business":      " You specialize in business astrology, providing insights on timing for business decisions, partnerships, and financial matters.",
	"gemstone":      " You are knowledgeable about astrological gemstones (ratnas) and their effects based on planetary positions in a birth chart.",
}

// SystemPrompt возвращает системную инструкцию для модуля.
func SystemPrompt(module string) string {
	return basePrompt + modulePrompts[module] + closingPrompt
}

// UserPrompt формирует пользовательское сообщение из данных рождения и вопроса.
func UserPrompt(question string, details models.BirthDetails) string {
	return fmt.Sprintf("Birth Details: %s\n\nQuestion: %s", formatBirthDetails(details), question)
}

func formatBirthDetails(d models.BirthDetails) string {
	return fmt.Sprintf("Name: %s, Date of Birth: %s, Time of Birth: %s, Place of Birth: %s, Gender: %s",
		orNotProvided(d.Name), orNotProvided(d.BirthDate), orNotProvided(d.BirthTime),
		orNotProvided(d.BirthPlace), orNotProvided(d.Gender))
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

// CacheKey строит ключ кеша ответа: модуль, вопрос и сериализованные данные
// рождения без какой-либо нормализации — совпадение строго побайтовое.
func CacheKey(module, question string, details models.BirthDetails) string {
	raw, _ := json.Marshal(details)
	return fmt.Sprintf("astrology:%s:%s:%s", module, question, string(raw))
}
