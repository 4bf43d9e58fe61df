package settings

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error)
	ListConfigs(ctx context.Context) ([]*domain.SchedulingConfig, error)
	Upsert(ctx context.Context, cfg *domain.SchedulingConfig) (*domain.SchedulingConfig, error)
	DeleteServiceConfig(ctx context.Context, serviceID int64) error
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
	UpsertBusinessHours(ctx context.Context, bh *domain.BusinessHours) error
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotsCache кэш рассчитанных слотов
type SlotsCache interface {
	InvalidateAll(ctx context.Context) error
}

// AuditRecorder журнал действий администраторов
type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action, entity string, entityID *int64, details interface{})
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
