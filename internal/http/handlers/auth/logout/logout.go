// Package logout реализует HTTP-обработчик выхода из сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-account-service/internal/http/session"
)

// Handler обрабатывает запросы выхода.
type Handler struct {
	log    *slog.Logger
	cookie session.CookieOptions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, cookie session.CookieOptions) *Handler {
	return &Handler{
		log:    log,
		cookie: cookie,
	}
}

// ServeHTTP перезаписывает cookie сессии просроченной заглушкой.
// Выданный токен при этом остается криптографически валидным до
// естественного истечения: сервис не ведет серверный реестр сессий.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session.Clear(w, h.cookie)
	log.Info("session cookie cleared")
	render.JSON(w, r, map[string]any{
		"success": true,
		"user":    map[string]any{},
	})
}
