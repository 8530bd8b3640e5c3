package models

// ReceiptEvent событие для очереди почтовых квитанций, публикуется после
// подтверждения платежа.
type ReceiptEvent struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Module    string `json:"module"`
	Plan      string `json:"plan"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	PaymentID string `json:"payment_id"`
}
