package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// IsPrivileged admin и owner обходят проверки владельца брони
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleOwner
}

// ParseRole возвращает RoleUser для неизвестных значений
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleOwner:
		return Role(s)
	}
	return RoleUser
}

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsPrivileged сокращение для роли
func (u *User) IsPrivileged() bool {
	return u.Role.IsPrivileged()
}
