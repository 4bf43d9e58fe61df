package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error)
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	// GetWithFilter внутри транзакции блокирует записи дня (FOR UPDATE)
	GetWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeBlock, error)
}

// CouponRepository интерфейс репозитория купонов
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	IncrementUsage(ctx context.Context, id int64) error
}

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date types.Date) error
}

// Notifier уведомления о записях
type Notifier interface {
	AppointmentEvent(ctx context.Context, event domain.NotificationEvent, a *domain.Appointment, reason *string)
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
