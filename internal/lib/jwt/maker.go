package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Обе отдаются клиенту как 401, но различимы
// для диагностики: истекший токен — повод для повторного входа,
// невалидный — признак порчи или подделки.
var (
	// ErrTokenExpired означает, что срок действия токена истек.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid означает, что токен поврежден или подпись не сходится.
	ErrTokenInvalid = errors.New("token is invalid")
)

// GenerateToken создает токен с uid в качестве subject, подписывая его
// секретным ключом. Время жизни определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(uid, username, role string) (string, error) {
	claims := CustomClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит токен, проверяет его подпись и срок действия,
// возвращает CustomClaims, если токен корректен.
//
// Подпись проверяется до разбора claims: подделанный токен отклоняется
// как ErrTokenInvalid, истекший — как ErrTokenExpired.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{},
		func(_ *jwt.Token) (any, error) {
			return []byte(j.secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
