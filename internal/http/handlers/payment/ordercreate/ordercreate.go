// Package ordercreate реализует HTTP-обработчик создания платёжного заказа.
package ordercreate

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
)

// Service описывает интерфейс бизнес-логики создания заказа.
type Service interface {
	CreateOrder(ctx context.Context, userUID string, req models.DummyOrder) (*payment.OrderInfo, error)
}

// Handler обрабатывает запросы на создание заказа.
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
// @Summary Создать платёжный заказ
// @Description Открывает заказ у платёжного провайдера для покупки безлимита по модулю или подписки
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyOrder true "Модуль и план покупки"
// @Success 200 {object} response.Response "Данные заказа для оплаты"
// @Failure 400 {object} response.ErrorResponse "Неизвестный модуль, несовместимый план или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или провайдера"
// @Router /payment/create-order [post]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.ordercreate"

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

	var req models.DummyOrder
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

	order, err := h.service.CreateOrder(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidModule) || errors.Is(err, payment.ErrPlanMismatch) {
			log.Error("invalid order request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create order"))
		return
	}

	log.Info("order created", slog.String("order_id", order.OrderID))
	render.JSON(w, r, response.OKWithData(order))
}
