package paymentprovider

// CreateOrderRequest запрос на открытие заказа.
type CreateOrderRequest struct {
	Amount   int    `json:"amount"`   // сумма в пайсах (INR * 100)
	Currency string `json:"currency"` // валюта, например "INR"
	Receipt  string `json:"receipt"`  // внутренний идентификатор квитанции
}

// Order заказ, открытый у провайдера.
type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
