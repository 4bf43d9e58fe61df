package promote_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetWaiting(ctx context.Context, serviceID int64, date types.Date) ([]*domain.WaitlistEntry, error)
	MarkNotified(ctx context.Context, id int64, offered types.TimeString, notifiedAt, expiresAt time.Time) error
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Notifier уведомление клиента о предложенном времени
type Notifier interface {
	WaitlistOffer(ctx context.Context, e *domain.WaitlistEntry, serviceName string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
