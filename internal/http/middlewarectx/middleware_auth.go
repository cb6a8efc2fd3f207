package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-account-service/internal/http/response"
	"github.com/magabrotheeeer/user-account-service/internal/http/session"
	libjwt "github.com/magabrotheeeer/user-account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-account-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-account-service/internal/models"
	"github.com/magabrotheeeer/user-account-service/internal/storage"
)

// UserProvider загружает пользователя по uid из subject токена.
type UserProvider interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// Authenticate возвращает middleware, который извлекает токен сессии из
// cookie или заголовка Authorization, проверяет его и загружает
// пользователя по subject.
//
// Порядок источников: сначала cookie "token", затем Bearer-заголовок.
// Любой сбой цепочки — отсутствующий токен, невалидная подпись, истекший
// срок, удаленная учетная запись — завершает запрос статусом 401.
func Authenticate(log *slog.Logger, jwtMaker libjwt.Maker, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := extractToken(r)
			if tokenStr == "" {
				log.Error("missing authentication token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing authentication token"))
				return
			}

			claims, err := jwtMaker.ParseToken(tokenStr)
			if err != nil {
				log.Error("token verification failed", sl.Err(err))
				response.Err(w, r, log, err)
				return
			}

			user, err := users.GetUser(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					// Токен пережил учетную запись: отвечаем как на невалидный.
					log.Error("token subject no longer exists")
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				log.Error("failed to load user", sl.Err(err))
				response.Err(w, r, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken достает токен сессии из cookie, а затем из Bearer-заголовка.
// Заглушка "none", оставленная логаутом, считается отсутствием токена.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil {
		if c.Value != "" && c.Value != "none" {
			return c.Value
		}
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
