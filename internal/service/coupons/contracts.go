package coupons

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CouponRepository интерфейс репозитория купонов
type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	GetByID(ctx context.Context, id int64) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]*domain.Coupon, error)
	Update(ctx context.Context, c *domain.Coupon) error
}

// AuditRecorder журнал действий администраторов
type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action, entity string, entityID *int64, details interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
