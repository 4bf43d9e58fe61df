package audit

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// Repository интерфейс журнала аудита
type Repository interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
