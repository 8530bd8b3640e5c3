// Package signout реализует HTTP-обработчик выхода из аккаунта:
// отзывает сессию в Redis и гасит cookie.
package signout

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

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Signout(ctx context.Context, token string) error
}

// Handler обрабатывает запросы на выход.
type Handler struct {
	log        *slog.Logger
	service    Service
	cookieName string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookieName string) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		cookieName: cookieName,
	}
}

// ServeHTTP godoc
// @Summary Выход из аккаунта
// @Description Отзывает сессию и гасит сессионную cookie
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/signout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := ""
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		token = cookie.Value
	} else if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if token != "" {
		if err := h.service.Signout(r.Context(), token); err != nil {
			log.Error("failed to revoke session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to sign out"))
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info("user signed out")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "signed out successfully",
	}))
}
