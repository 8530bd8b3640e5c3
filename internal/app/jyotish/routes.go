// Package jyotish предоставляет маршруты для основного приложения.
package jyotish

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/jyotishdesk/jyotish-api/internal/config"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/astrology/ask"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/auth/signin"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/auth/signout"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/auth/signup"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/health"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/payment/ordercreate"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/payment/verify"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/user/chats"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/user/profileread"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/user/profileupdate"
	"github.com/jyotishdesk/jyotish-api/internal/http/handlers/user/questions"
	"github.com/jyotishdesk/jyotish-api/internal/http/middlewarectx"
	astrologyservice "github.com/jyotishdesk/jyotish-api/internal/services/astrology"
	authservice "github.com/jyotishdesk/jyotish-api/internal/services/auth"
	paymentservice "github.com/jyotishdesk/jyotish-api/internal/services/payment"
	userservice "github.com/jyotishdesk/jyotish-api/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	astrologyService *astrologyservice.AstrologyService,
	paymentService *paymentservice.PaymentService,
	userService *userservice.UserService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/signup", signup.New(logger, authService, cfg.CookieName, cfg.SessionTTL).ServeHTTP)
		r.Post("/auth/signin", signin.New(logger, authService, cfg.CookieName, cfg.SessionTTL).ServeHTTP)
		r.Post("/auth/signout", signout.New(logger, authService, cfg.CookieName).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(logger, authService, cfg.CookieName))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/astrology/{module}", ask.New(logger, astrologyService).ServeHTTP)
			r.Post("/payment/create-order", ordercreate.New(logger, paymentService).ServeHTTP)
			r.Post("/payment/verify", verify.New(logger, paymentService).ServeHTTP)
			r.Get("/user/profile", profileread.New(logger, userService).ServeHTTP)
			r.Put("/user/profile", profileupdate.New(logger, userService).ServeHTTP)
			r.Get("/user/chats", chats.New(logger, userService).ServeHTTP)
			r.Get("/user/questions", questions.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
