package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-account-service/internal/http/response"
)

// RequireRole возвращает middleware, пропускающий только пользователей
// с одной из перечисленных ролей.
//
// Должен стоять в цепочке строго после Authenticate: роль читается из
// пользователя в контексте. Отсутствие пользователя в контексте означает
// нарушение порядка цепочки и завершается статусом 401, несоответствие
// роли — статусом 403.
func RequireRole(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("no authenticated user in request context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing authentication token"))
				return
			}

			if !slices.Contains(roles, user.Role) {
				log.Error("access denied",
					slog.String("uid", user.UID), slog.String("role", user.Role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
