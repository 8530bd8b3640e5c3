package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

// CreatePayment сохраняет новый платёж со статусом created и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, module, amount, currency, status,
				  order_id, payment_details)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.Module, p.Amount, p.Currency, p.Status,
		p.OrderID, p.PaymentDetails).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentByOrderID возвращает платёж пользователя по идентификатору заказа
// у провайдера.
func (s *Storage) GetPaymentByOrderID(ctx context.Context, userUID, orderID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByOrderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, module, amount, currency, status,
				  order_id, COALESCE(payment_id, ''), payment_details, created_at
			  FROM payments
			  WHERE user_uid = $1 AND order_id = $2`
	p := &models.Payment{}
	row := s.DB.QueryRowContext(ctx, query, userUID, orderID)
	if err := row.Scan(&p.ID, &p.UserUID, &p.Module, &p.Amount, &p.Currency,
		&p.Status, &p.OrderID, &p.PaymentID, &p.PaymentDetails, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CapturePayment переводит платёж в captured и в той же транзакции выдаёт
// оплаченные права: подписку на весь аккаунт для module = "all", иначе
// безлимит по конкретному модулю. Частичное применение исключено —
// либо фиксируются обе записи, либо ни одной.
func (s *Storage) CapturePayment(ctx context.Context, p *models.Payment,
	providerPaymentID string, details []byte, plan string, endDate time.Time) error {
	const op = "storage.CapturePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE payments
		 SET status = $1, payment_id = $2, payment_details = $3
		 WHERE id = $4 AND status = $5`,
		models.PaymentStatusCaptured, providerPaymentID, details,
		p.ID, models.PaymentStatusCreated)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		// Повторное подтверждение уже захваченного платежа: права выданы
		// раньше, транзакция сворачивается без изменений.
		return nil
	}

	if p.Module == models.ModuleAll {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO subscriptions (user_uid, plan, start_date, end_date, is_active)
			 VALUES ($1, $2, NOW(), $3, true)
			 ON CONFLICT (user_uid) DO UPDATE
			 SET plan = EXCLUDED.plan,
				 start_date = EXCLUDED.start_date,
				 end_date = EXCLUDED.end_date,
				 is_active = true,
				 updated_at = NOW()`,
			p.UserUID, plan, endDate)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE module_questions
			 SET questions_remaining = $1, is_premium = true, updated_at = NOW()
			 WHERE user_uid = $2 AND module = $3`,
			models.UnlimitedSentinel, p.UserUID, p.Module)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
