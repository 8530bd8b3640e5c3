// Package payment содержит бизнес-логику оплат: создание заказов у провайдера
// и подтверждение платежей с выдачей оплаченных прав.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/metrics"
	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/paymentprovider"
)

// Ошибки бизнес-уровня, транслируемые обработчиками в HTTP-статусы.
var (
	// ErrInvalidModule неизвестный модуль в запросе заказа.
	ErrInvalidModule = errors.New("unknown module")
	// ErrPlanMismatch план не соответствует модулю: подписочные планы
	// требуют module = "all", разовая покупка требует конкретный модуль.
	ErrPlanMismatch = errors.New("plan does not match module")
	// ErrInvalidSignature подпись подтверждения платежа не прошла проверку.
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// Repository определяет методы хранилища для работы с платежами.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	CreatePayment(ctx context.Context, p models.Payment) (int, error)
	GetPaymentByOrderID(ctx context.Context, userUID, orderID string) (*models.Payment, error)
	// CapturePayment атомарно подтверждает платёж и выдаёт оплаченные права.
	CapturePayment(ctx context.Context, p *models.Payment,
		providerPaymentID string, details []byte, plan string, endDate time.Time) error
}

// Provider описывает платёжного провайдера.
type Provider interface {
	CreateOrder(ctx context.Context, req paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// Publisher публикует события в очередь почтовых квитанций.
type Publisher interface {
	Publish(message any) error
}

// OrderInfo данные созданного заказа для инициализации оплаты на клиенте.
type OrderInfo struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// PaymentService реализует создание и подтверждение платежей.
type PaymentService struct {
	repo      Repository
	provider  Provider
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр PaymentService.
func New(repo Repository, provider Provider, publisher Publisher, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		log:       log,
	}
}

// CreateOrder открывает заказ у провайдера и сохраняет платёж со статусом
// created. План и модуль проверяются на совместимость до обращения к
// провайдеру: подписочные планы покупаются только на весь аккаунт,
// разовый безлимит — только на конкретный модуль.
func (s *PaymentService) CreateOrder(ctx context.Context, userUID string, req models.DummyOrder) (*OrderInfo, error) {
	amount, err := resolveAmount(req.Module, req.Plan)
	if err != nil {
		return nil, err
	}

	order, err := s.provider.CreateOrder(ctx, paymentprovider.CreateOrderRequest{
		Amount:   amount * 100, // в пайсах
		Currency: "INR",
		Receipt:  "rcpt_" + uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider order: %w", err)
	}

	details, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order details: %w", err)
	}
	if _, err := s.repo.CreatePayment(ctx, models.Payment{
		UserUID:        userUID,
		Module:         req.Module,
		Amount:         amount,
		Currency:       "INR",
		Status:         models.PaymentStatusCreated,
		OrderID:        order.ID,
		PaymentDetails: details,
	}); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	return &OrderInfo{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.provider.KeyID(),
	}, nil
}

// Verify проверяет подпись подтверждения и выдаёт оплаченные права.
// Подпись проверяется до любых обращений к базе. Повторное подтверждение
// уже захваченного платежа завершается успешно без повторной выдачи.
func (s *PaymentService) Verify(ctx context.Context, userUID string, req models.DummyVerify) error {
	if !s.provider.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return ErrInvalidSignature
	}

	p, err := s.repo.GetPaymentByOrderID(ctx, userUID, req.RazorpayOrderID)
	if err != nil {
		return err
	}

	plan, endDate := resolveGrant(p)
	details, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal verify details: %w", err)
	}
	if err := s.repo.CapturePayment(ctx, p, req.RazorpayPaymentID, details, plan, endDate); err != nil {
		return err
	}
	metrics.PaymentsCaptured.Inc()

	s.publishReceipt(ctx, p, plan, req.RazorpayPaymentID)
	return nil
}

// publishReceipt отправляет событие в очередь квитанций. Ошибка публикации
// не откатывает подтверждение платежа.
func (s *PaymentService) publishReceipt(ctx context.Context, p *models.Payment, plan, paymentID string) {
	user, err := s.repo.GetUser(ctx, p.UserUID)
	if err != nil {
		s.log.Error("failed to load user for receipt", sl.Err(err))
		return
	}
	event := models.ReceiptEvent{
		Email:     user.Email,
		Name:      user.Name,
		Module:    p.Module,
		Plan:      plan,
		Amount:    p.Amount,
		Currency:  p.Currency,
		PaymentID: paymentID,
	}
	if err := s.publisher.Publish(event); err != nil {
		s.log.Error("failed to publish receipt event", sl.Err(err))
	}
}

// resolveAmount проверяет модуль и план на совместимость и возвращает
// цену в рупиях.
func resolveAmount(module, plan string) (int, error) {
	if module != models.ModuleAll && !models.IsValidModule(module) {
		return 0, ErrInvalidModule
	}
	switch plan {
	case models.PlanSingle:
		if module == models.ModuleAll {
			return 0, ErrPlanMismatch
		}
		return models.PriceSingle, nil
	case models.PlanPremium:
		if module != models.ModuleAll {
			return 0, ErrPlanMismatch
		}
		return models.PricePremium, nil
	case models.PlanAnnual:
		if module != models.ModuleAll {
			return 0, ErrPlanMismatch
		}
		return models.PriceAnnual, nil
	default:
		return 0, ErrPlanMismatch
	}
}

// resolveGrant восстанавливает план и срок действия по сохранённому платежу.
// Для разовой покупки срок не используется.
func resolveGrant(p *models.Payment) (string, time.Time) {
	if p.Module != models.ModuleAll {
		return models.PlanSingle, time.Time{}
	}
	if p.Amount == models.PriceAnnual {
		return models.PlanAnnual, time.Now().AddDate(1, 0, 0)
	}
	return models.PlanPremium, time.Now().AddDate(0, 1, 0)
}
