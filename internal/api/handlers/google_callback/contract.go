package google_callback

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

type AuthService interface {
	GoogleCallback(ctx context.Context, code string) (*auth.AuthResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
