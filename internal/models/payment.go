package models

import "time"

// Статусы платежа.
const (
	PaymentStatusCreated  = "created"
	PaymentStatusCaptured = "captured"
)

// PlanSingle план разовой покупки безлимита по одному модулю.
const PlanSingle = "single"

// Цены в рупиях. Провайдеру суммы передаются в пайсах (x100).
const (
	PriceSingle  = 499
	PricePremium = 499
	PriceAnnual  = 4999
)

// Payment представляет платёж пользователя.
type Payment struct {
	ID             int       // Идентификатор строки
	UserUID        string    // Плательщик
	Module         string    // Модуль или "all" для подписки
	Amount         int       // Сумма в рупиях
	Currency       string    // Валюта (INR)
	Status         string    // created или captured
	OrderID        string    // Идентификатор заказа у провайдера
	PaymentID      string    // Идентификатор платежа у провайдера
	PaymentDetails []byte    // Сырой JSON от провайдера
	CreatedAt      time.Time // Дата создания
}

// DummyOrder используется для приёма запроса на создание заказа.
type DummyOrder struct {
	Module string `json:"module" validate:"required"`
	Plan   string `json:"plan" validate:"required,oneof=single premium annual"`
}

// DummyVerify используется для приёма данных подтверждения платежа
// от провайдера.
type DummyVerify struct {
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}
