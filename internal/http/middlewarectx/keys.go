// Package middlewarectx содержит HTTP middleware контроля доступа:
// аутентификацию по токену сессии, проверку роли и ограничение частоты
// запросов. Аутентифицированный пользователь кладется в контекст запроса
// и доступен обработчикам ниже по цепочке.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/user-account-service/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// CtxUser — ключ для аутентифицированного пользователя в контексте.
const CtxUser Key = "user"

// UserFromContext извлекает аутентифицированного пользователя из контекста.
// Возвращает false, если Authenticate не отработал для этого запроса.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CtxUser).(*models.User)
	return user, ok
}
