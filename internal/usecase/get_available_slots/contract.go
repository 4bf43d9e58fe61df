package get_available_slots

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

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов
	GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error)
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetActiveByDate получает активные записи салона на дату
	GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeBlock, error)
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	Get(ctx context.Context, serviceID int64, date types.Date, professionalID *int64) ([]domain.AvailableSlot, bool, error)
	Set(ctx context.Context, serviceID int64, date types.Date, professionalID *int64, slots []domain.AvailableSlot) error
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
