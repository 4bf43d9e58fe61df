package catalog

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) error
	Deactivate(ctx context.Context, id int64) error
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	InvalidateAll(ctx context.Context) error
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
