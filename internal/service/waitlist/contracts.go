package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	GetByClientID(ctx context.Context, clientID int64) ([]*domain.WaitlistEntry, error)
	List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// WaitlistPromoter предлагает освободившееся время следующему в очереди
type WaitlistPromoter interface {
	Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error)
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
