package recurring

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/usecase/generate_recurring"
)

// RecurringRepository интерфейс репозитория шаблонов
type RecurringRepository interface {
	Create(ctx context.Context, ra *domain.RecurringAppointment) (*domain.RecurringAppointment, error)
	GetByID(ctx context.Context, id int64) (*domain.RecurringAppointment, error)
	List(ctx context.Context, clientID *int64) ([]*domain.RecurringAppointment, error)
	Deactivate(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}

// Generator материализует вхождения шаблонов в записи
type Generator interface {
	Execute(ctx context.Context, horizonDays int) (*generate_recurring.Result, error)
}

// AuditRecorder журнал действий администраторов
type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action, entity string, entityID *int64, details interface{})
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
