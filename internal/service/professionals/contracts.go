package professionals

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	Create(ctx context.Context, p *domain.Professional) (*domain.Professional, error)
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Professional, error)
	Update(ctx context.Context, p *domain.Professional) error
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
