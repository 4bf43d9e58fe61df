package cancel_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason *string, at time.Time) error
}

// CouponRepository возврат использования купона
type CouponRepository interface {
	ReleaseUsage(ctx context.Context, id int64) error
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error)
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date types.Date) error
}

// Notifier уведомления о записях
type Notifier interface {
	AppointmentEvent(ctx context.Context, event domain.NotificationEvent, a *domain.Appointment, reason *string)
}

// WaitlistPromoter предлагает освободившееся время листу ожидания
type WaitlistPromoter interface {
	Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
