package timeblocks

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// TimeBlockRepository интерфейс репозитория блокировок
type TimeBlockRepository interface {
	Create(ctx context.Context, b *domain.TimeBlock) (*domain.TimeBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error)
	GetByDateRange(ctx context.Context, from, to types.Date) ([]*domain.TimeBlock, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository активные записи на дату
type AppointmentRepository interface {
	GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error)
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date types.Date) error
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
