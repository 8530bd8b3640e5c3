// Package verify реализует HTTP-обработчик подтверждения платежа.
//
// Handler проверяет подпись провайдера и выдаёт оплаченные права в одной
// транзакции. Неверная подпись — HTTP 400, неизвестный заказ — HTTP 404.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/jyotishdesk/jyotish-api/internal/http/middlewarectx"
	"github.com/jyotishdesk/jyotish-api/internal/http/response"
	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/services/payment"
	"github.com/jyotishdesk/jyotish-api/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики подтверждения платежа.
type Service interface {
	Verify(ctx context.Context, userUID string, req models.DummyVerify) error
}

// Handler обрабатывает запросы на подтверждение платежа.
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
// @Summary Подтвердить платёж
// @Description Проверяет подпись провайдера и активирует оплаченные права
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyVerify true "Данные подтверждения от провайдера"
// @Success 200 {object} response.Response "Платёж подтверждён"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payment/verify [post]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

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

	var req models.DummyVerify
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

	if err := h.service.Verify(r.Context(), userUID, req); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			log.Error("invalid payment signature", slog.String("order_id", req.RazorpayOrderID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid payment signature"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("payment not found", slog.String("order_id", req.RazorpayOrderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to verify payment"))
		}
		return
	}

	log.Info("payment verified", slog.String("order_id", req.RazorpayOrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "payment verified successfully",
	}))
}
