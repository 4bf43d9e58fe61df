package reviews

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// ReviewRepository интерфейс репозитория отзывов
type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) (*domain.Review, error)
	ListApproved(ctx context.Context, serviceID *int64) ([]*domain.Review, error)
	ListAll(ctx context.Context, pendingOnly bool) ([]*domain.Review, error)
	Summary(ctx context.Context, serviceID *int64) (domain.ReviewSummary, error)
	Approve(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
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
