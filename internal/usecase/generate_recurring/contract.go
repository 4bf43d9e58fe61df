package generate_recurring

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// RecurringRepository интерфейс репозитория шаблонов повторяющихся записей
type RecurringRepository interface {
	ListActive(ctx context.Context) ([]*domain.RecurringAppointment, error)
	SetLastGenerated(ctx context.Context, id int64, date types.Date) error
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error)
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeBlock, error)
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date types.Date) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
