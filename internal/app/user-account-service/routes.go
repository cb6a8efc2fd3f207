// Package useraccountservice предоставляет маршруты приложения.
package useraccountservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/user/changepassword"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/user-account-service/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/user-account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-account-service/internal/http/response"
	"github.com/magabrotheeeer/user-account-service/internal/http/session"
	"github.com/magabrotheeeer/user-account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-account-service/internal/models"
	services "github.com/magabrotheeeer/user-account-service/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Открытые конечные точки — регистрация и вход; остальные операции над
// аккаунтом требуют аутентификации, административные — роли admin.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService,
	jwtMaker jwt.Maker, cookie session.CookieOptions) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", register.New(logger, authService, cookie).ServeHTTP)
		r.Post("/login", login.New(logger, authService, cookie).ServeHTTP)

		// Группа с аутентификацией по токену сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.Authenticate(logger, jwtMaker, authService))
			r.Use(middlewarectx.RateLimit(logger))
			r.Get("/logout", logout.New(logger, cookie).ServeHTTP)
			r.Get("/me", me.New(logger).ServeHTTP)
			r.Put("/", update.New(logger, authService).ServeHTTP)
			r.Put("/password", changepassword.New(logger, authService).ServeHTTP)

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Get("/", list.New(logger, authService).ServeHTTP)
				r.Delete("/{id}", remove.New(logger, authService).ServeHTTP)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("route not found"))
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
