package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/usecase/cancel_appointment"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus, at time.Time) error
}

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}

// CommissionRepository интерфейс репозитория комиссий
type CommissionRepository interface {
	Create(ctx context.Context, c *domain.Commission) (*domain.Commission, error)
}

// Canceller отмена записи с возвратом купона и продвижением листа ожидания
type Canceller interface {
	Execute(ctx context.Context, req *cancel_appointment.Request) (*domain.Appointment, error)
}

// SlotsCache кэш свободных слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date types.Date) error
}

// Notifier уведомления о записях
type Notifier interface {
	AppointmentEvent(ctx context.Context, event domain.NotificationEvent, a *domain.Appointment, reason *string)
}

// AuditRecorder журнал действий администраторов
type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action, entity string, entityID *int64, details interface{})
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
