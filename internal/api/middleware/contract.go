package middleware

import "github.com/m04kA/SMC-NailSalon/pkg/authtoken"

// TokenParser проверка access-токенов (реализуется authtoken.Manager)
type TokenParser interface {
	Parse(token string) (*authtoken.Claims, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
