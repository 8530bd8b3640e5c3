// Package ask реализует HTTP-обработчик вопроса к астрологическому модулю.
//
// Handler извлекает имя модуля из URL, проверяет тело запроса и вызывает
// бизнес-логику ответа. При исчерпании бесплатных вопросов возвращает
// HTTP 402 с признаком payment_required.
package ask

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jyotishdesk/jyotish-api/internal/http/middlewarectx"
	"github.com/jyotishdesk/jyotish-api/internal/http/response"
	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/services/astrology"
)

// Service описывает интерфейс бизнес-логики ответа на вопрос.
type Service interface {
	Ask(ctx context.Context, userUID, module string, req models.DummyQuestion) (*astrology.Answer, error)
}

// Handler обрабатывает вопросы пользователей к модулям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Задать вопрос астрологическому модулю
// @Description Возвращает ответ по выбранному модулю, списывая бесплатный вопрос для непремиум-аккаунтов
// @Tags Astrology
// @Accept  json
// @Produce  json
// @Param module path string true "Модуль консультаций" Enums(kundli, relationship, career, compatibility, business, gemstone)
// @Param request body models.DummyQuestion true "Вопрос и данные рождения"
// @Success 200 {object} response.Response "Ответ модуля"
// @Failure 400 {object} response.ErrorResponse "Неизвестный модуль или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.PaymentRequiredResponse "Бесплатные вопросы исчерпаны"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /astrology/{module} [post]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.astrology.ask"

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

	module := chi.URLParam(r, "module")
	if !models.IsValidModule(module) {
		log.Error("unknown module", slog.String("module", module))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown module"))
		return
	}

	var req models.DummyQuestion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	answer, err := h.service.Ask(r.Context(), userUID, module, req)
	if err != nil {
		if errors.Is(err, astrology.ErrPaymentRequired) {
			log.Info("free questions exhausted", slog.String("module", module))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.PaymentRequired("no questions remaining"))
			return
		}
		log.Error("failed to answer question", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to answer question"))
		return
	}

	log.Info("question answered", slog.String("module", module))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"response":            answer.Response,
		"questions_remaining": answer.QuestionsRemaining,
	}))
}
