package middleware

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
	requestIDKey
)

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, userID int64, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserID ID аутентифицированного пользователя
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetRole роль аутентифицированного пользователя
func GetRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}

// IsAdmin true для администратора
func IsAdmin(ctx context.Context) bool {
	role, ok := GetRole(ctx)
	return ok && role == domain.RoleAdmin
}

// GetRequestID идентификатор запроса
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
