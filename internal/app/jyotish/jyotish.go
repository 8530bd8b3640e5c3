// Package jyotish собирает основное приложение: хранилище, кеш, брокер,
// внешние провайдеры, сервисы и HTTP-сервер.
package jyotish

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/jyotishdesk/jyotish-api/internal/aiprovider"
	"github.com/jyotishdesk/jyotish-api/internal/cache"
	"github.com/jyotishdesk/jyotish-api/internal/config"
	"github.com/jyotishdesk/jyotish-api/internal/lib/jwt"
	"github.com/jyotishdesk/jyotish-api/internal/migrations"
	"github.com/jyotishdesk/jyotish-api/internal/paymentprovider"
	"github.com/jyotishdesk/jyotish-api/internal/rabbitmq"
	astrologyservice "github.com/jyotishdesk/jyotish-api/internal/services/astrology"
	authservice "github.com/jyotishdesk/jyotish-api/internal/services/auth"
	paymentservice "github.com/jyotishdesk/jyotish-api/internal/services/payment"
	userservice "github.com/jyotishdesk/jyotish-api/internal/services/user"
	"github.com/jyotishdesk/jyotish-api/internal/storage/repository"
)

// App основное приложение jyotish-api.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует все зависимости приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.ConnectionString, cfg.ConnectRetries, cfg.ConnectDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetPaymentQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	tokenMaker := jwt.NewMaker(cfg.SecretKey, cfg.SessionTTL)
	aiClient := aiprovider.NewClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.TimeoutAI)
	razorpayClient := paymentprovider.NewClient(cfg.KeyID, cfg.KeySecret)
	receiptPublisher := rabbitmq.NewReceiptPublisher(ch)

	authService := authservice.New(db, cacheRedis, tokenMaker, cfg.SessionTTL)
	astrologyService := astrologyservice.New(db, cacheRedis, aiClient, logger)
	paymentService := paymentservice.New(db, razorpayClient, receiptPublisher, logger)
	userService := userservice.New(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, astrologyService, paymentService, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
