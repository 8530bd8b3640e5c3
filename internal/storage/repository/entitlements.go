package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

// GetEntitlement возвращает строку прав пользователя по конкретному модулю.
func (s *Storage) GetEntitlement(ctx context.Context, userUID, module string) (*models.Entitlement, error) {
	const op = "storage.GetEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, module, questions_remaining, is_premium, updated_at
			  FROM module_questions
			  WHERE user_uid = $1 AND module = $2`
	e := &models.Entitlement{}
	row := s.DB.QueryRowContext(ctx, query, userUID, module)
	if err := row.Scan(&e.ID, &e.UserUID, &e.Module, &e.QuestionsRemaining,
		&e.IsPremium, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListEntitlements возвращает права пользователя по всем модулям.
func (s *Storage) ListEntitlements(ctx context.Context, userUID string) ([]*models.Entitlement, error) {
	const op = "storage.ListEntitlements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, module, questions_remaining, is_premium, updated_at
			  FROM module_questions
			  WHERE user_uid = $1
			  ORDER BY module`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Entitlement
	for rows.Next() {
		var e models.Entitlement
		if err := rows.Scan(&e.ID, &e.UserUID, &e.Module, &e.QuestionsRemaining,
			&e.IsPremium, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DecrementQuestions атомарно списывает один бесплатный вопрос.
// Условие questions_remaining > 0 входит в сам UPDATE, поэтому два
// одновременных запроса не могут увести счётчик в минус. Возвращает
// новый остаток и признак успеха; false означает, что квота исчерпана
// или строка отсутствует.
func (s *Storage) DecrementQuestions(ctx context.Context, userUID, module string) (int, bool, error) {
	const op = "storage.DecrementQuestions"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE module_questions
			  SET questions_remaining = questions_remaining - 1,
				  updated_at = NOW()
			  WHERE user_uid = $1 AND module = $2 AND questions_remaining > 0
			  RETURNING questions_remaining`
	var remaining int
	err := s.DB.QueryRowContext(ctx, query, userUID, module).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return remaining, true, nil
}
