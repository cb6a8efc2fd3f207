package storage

import "errors"

// Ошибки хранилища, различимые вызывающим кодом. Все прочие ошибки
// базы данных поднимаются наверх как внутренние.
var (
	// ErrUserNotFound означает отсутствие пользователя с таким uid или email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists означает нарушение уникальности email.
	ErrUserExists = errors.New("user already exists")
)
