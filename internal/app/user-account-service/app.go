// Package useraccountservice собирает сервис аккаунтов: хранилище, миграции,
// кэш, издателя событий, бизнес-логику и HTTP-сервер.
package useraccountservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/user-account-service/internal/cache"
	"github.com/magabrotheeeer/user-account-service/internal/config"
	"github.com/magabrotheeeer/user-account-service/internal/events"
	"github.com/magabrotheeeer/user-account-service/internal/http/session"
	"github.com/magabrotheeeer/user-account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-account-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-account-service/internal/migrations"
	services "github.com/magabrotheeeer/user-account-service/internal/services/auth"
	"github.com/magabrotheeeer/user-account-service/internal/storage"
)

// App хранит собранные зависимости сервиса.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *storage.Storage
	publisher *events.Publisher
}

// New инициализирует все зависимости и возвращает готовое к запуску приложение.
// Кэш и издатель событий подключаются только при наличии адресов в конфиге.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	var userCache services.UserCache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		userCache = cacheRedis
	}

	var publisher *events.Publisher
	var eventPublisher services.EventPublisher
	if cfg.AMQPURL != "" {
		publisher, err = events.New(cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			return nil, err
		}
		eventPublisher = publisher
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := services.NewAuthService(db, jwtMaker, userCache,
		eventPublisher, logger, cfg.UserCacheTTL)

	cookie := session.CookieOptions{
		ExpireDays: cfg.CookieExpireDays,
		Secure:     cfg.IsProd(),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, jwtMaker, cookie)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		publisher: publisher,
	}, nil
}

// Run запускает HTTP-сервер и ждет либо его остановки, либо отмены контекста.
// При отмене сервер завершает работу gracefully.
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
		if a.publisher != nil {
			a.publisher.Close()
		}
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}
