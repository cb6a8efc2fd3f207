// Package models содержит структуры предметной области сервиса аккаунтов.
package models

import "time"

// Роли пользователей. Роль по умолчанию при регистрации — RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User описывает учетную запись пользователя.
//
// PasswordHash никогда не сериализуется в ответы клиенту.
type User struct {
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
