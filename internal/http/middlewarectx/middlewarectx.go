// Package middlewarectx содержит HTTP middleware для проверки сессий.
//
// SessionMiddleware извлекает сессионный токен из cookie (или заголовка
// Authorization как запасной вариант), проверяет его через сервис
// авторизации и кладёт UID пользователя в контекст запроса.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/jyotishdesk/jyotish-api/internal/http/response"
	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// UserUID — ключ для UID пользователя в контексте.
const UserUID Key = "user_uid"

// AuthService описывает интерфейс сервиса для разрешения сессионного токена.
type AuthService interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// SessionMiddleware создает middleware для проверки сессии пользователя.
func SessionMiddleware(log *slog.Logger, authService AuthService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := extractToken(r, cookieName)
			if token == "" {
				reqLog.Error("session token missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			userUID, err := authService.ResolveSession(r.Context(), token)
			if err != nil {
				reqLog.Error("failed to resolve session", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, userUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken возвращает сессионный токен из cookie или заголовка
// Authorization: Bearer.
func extractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
