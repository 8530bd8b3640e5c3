package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// SetSession регистрирует сессию: session:{id} -> userUID с TTL.
func (c *Cache) SetSession(ctx context.Context, sessionID, userUID string, ttl time.Duration) error {
	const op = "cache.SetSession"
	if err := c.Db.Set(ctx, sessionKey(sessionID), userUID, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSession возвращает UID пользователя по идентификатору сессии.
// Возвращает пустую строку без ошибки, если сессия не найдена или отозвана.
func (c *Cache) GetSession(ctx context.Context, sessionID string) (string, error) {
	const op = "cache.GetSession"
	val, err := c.Db.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// DeleteSession отзывает сессию.
func (c *Cache) DeleteSession(ctx context.Context, sessionID string) error {
	const op = "cache.DeleteSession"
	if err := c.Db.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
