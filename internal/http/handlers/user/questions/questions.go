// Package questions реализует HTTP-обработчик статуса квот пользователя:
// остаток бесплатных вопросов по каждому модулю и сводка по подписке.
package questions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/jyotishdesk/jyotish-api/internal/http/middlewarectx"
	"github.com/jyotishdesk/jyotish-api/internal/http/response"
	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/services/user"
)

// Service описывает интерфейс бизнес-логики статуса квот.
type Service interface {
	GetQuestionStatus(ctx context.Context, userUID string) (*user.QuestionStatus, error)
}

// Handler обрабатывает запросы статуса квот.
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
// @Summary Получить статус квот по модулям
// @Description Возвращает остаток бесплатных вопросов по каждому модулю и сводку по подписке
// @Tags User
// @Produce  json
// @Success 200 {object} response.Response "Статус квот"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user/questions [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.questions"

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

	status, err := h.service.GetQuestionStatus(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get question status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get question status"))
		return
	}

	render.JSON(w, r, response.OKWithData(status))
}
