package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	libjwt "github.com/magabrotheeeer/user-account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-account-service/internal/lib/sl"
	services "github.com/magabrotheeeer/user-account-service/internal/services/auth"
	"github.com/magabrotheeeer/user-account-service/internal/storage"
)

// Err — единая точка трансляции ошибок бизнес-логики в HTTP-ответ.
// Обработчики не сопоставляют статусы сами: они передают типизированную
// ошибку сюда. Неизвестные ошибки логируются и отдаются клиенту как
// непрозрачная 500, детали внутренних сбоев наружу не попадают.
func Err(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, services.ErrPasswordMismatch):
		status, msg = http.StatusBadRequest, services.ErrPasswordMismatch.Error()
	case errors.Is(err, services.ErrWrongPassword):
		status, msg = http.StatusBadRequest, services.ErrWrongPassword.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, libjwt.ErrTokenExpired), errors.Is(err, libjwt.ErrTokenInvalid):
		status, msg = http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, storage.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, storage.ErrUserExists):
		status, msg = http.StatusConflict, "email already in use"
	default:
		log.Error("internal error", sl.Err(err))
		status, msg = http.StatusInternalServerError, "internal error"
	}

	w.WriteHeader(status)
	render.JSON(w, r, Error(msg))
}
