package models

// Modules перечисляет консультационные модули сервиса. Для каждого модуля
// у пользователя ведётся отдельный счётчик бесплатных вопросов.
var Modules = []string{
	"kundli",
	"relationship",
	"career",
	"compatibility",
	"business",
	"gemstone",
}

// ModuleAll псевдо-модуль для покупки подписки на весь аккаунт.
const ModuleAll = "all"

// IsValidModule проверяет, что имя модуля входит в список известных.
func IsValidModule(module string) bool {
	for _, m := range Modules {
		if m == module {
			return true
		}
	}
	return false
}
