// Package chats реализует HTTP-обработчик истории вопросов пользователя.
package chats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/jyotishdesk/jyotish-api/internal/http/middlewarectx"
	"github.com/jyotishdesk/jyotish-api/internal/http/response"
	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/models"
)

// Service описывает интерфейс бизнес-логики истории вопросов.
type Service interface {
	ListChats(ctx context.Context, userUID string) ([]*models.Chat, error)
}

// Handler обрабатывает запросы истории вопросов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить историю вопросов
// @Description Возвращает историю вопросов и ответов пользователя, новые первыми
// @Tags User
// @Produce  json
// @Success 200 {object} response.Response "История вопросов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user/chats [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.chats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	chats, err := h.service.ListChats(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list chats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list chats"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"chats": chats,
	}))
}
