package domain

import "time"

// Role роль пользователя
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User учетная запись клиента или администратора
type User struct {
	ID           int64
	Email        string
	PasswordHash *string // nil для пользователей, вошедших через Google
	Name         string
	Phone        *string
	Role         Role
	GoogleID     *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin пользователь - администратор салона
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
