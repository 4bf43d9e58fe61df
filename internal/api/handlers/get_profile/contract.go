package get_profile

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

type AuthService interface {
	GetProfile(ctx context.Context, userID int64) (*auth.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
