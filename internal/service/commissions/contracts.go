package commissions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CommissionRepository интерфейс репозитория комиссий
type CommissionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Commission, error)
	List(ctx context.Context, filter domain.CommissionFilter) ([]*domain.Commission, error)
	Totals(ctx context.Context, filter domain.CommissionFilter) (domain.CommissionTotals, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) error
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
