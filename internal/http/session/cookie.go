// Package session управляет cookie токена сессии.
//
// Токен передается клиенту двумя путями: в теле ответа и в httpOnly cookie.
// Флаг Secure выставляется только в продакшн-окружении.
package session

import (
	"net/http"
	"time"
)

// CookieName имя cookie, в которой клиент хранит токен сессии.
const CookieName = "token"

// CookieOptions задает параметры cookie сессии.
type CookieOptions struct {
	ExpireDays int  // Срок жизни cookie в днях, согласован с TTL токена
	Secure     bool // Secure-флаг, включается в продакшн-окружении
}

// SetToken записывает токен сессии в httpOnly cookie.
func SetToken(w http.ResponseWriter, token string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(opts.ExpireDays) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear перезаписывает cookie сессии просроченной заглушкой.
// Сам токен при этом криптографически не отзывается.
func Clear(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
