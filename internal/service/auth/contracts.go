package auth

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/google"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	CountAdmins(ctx context.Context) (int, error)
	LinkGoogle(ctx context.Context, id int64, googleID string) error
}

// TokenIssuer выпуск access-токенов (реализуется authtoken.Manager)
type TokenIssuer interface {
	Issue(userID int64, role string) (string, time.Time, error)
}

// AttemptCounter счетчик неудачных входов (реализуется attempts.Counter)
type AttemptCounter interface {
	Locked(ctx context.Context, email string) (bool, error)
	RegisterFailure(ctx context.Context, email string) (int, error)
	Reset(ctx context.Context, email string) error
}

// GoogleClient вход через Google (реализуется google.Client)
type GoogleClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*google.UserInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
