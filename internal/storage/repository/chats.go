package repository

import (
	"context"
	"fmt"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

// CreateChat вставляет новую запись истории вопросов и возвращает её ID.
func (s *Storage) CreateChat(ctx context.Context, chat models.Chat) (int, error) {
	const op = "storage.CreateChat"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO chats (user_uid, module, question, answer)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		chat.UserUID, chat.Module, chat.Question, chat.Answer).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListChats возвращает историю вопросов пользователя, новые первыми.
func (s *Storage) ListChats(ctx context.Context, userUID string) ([]*models.Chat, error) {
	const op = "storage.ListChats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, module, question, answer, created_at
			  FROM chats
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Chat
	for rows.Next() {
		var item models.Chat
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Module,
			&item.Question, &item.Answer, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
