package expire_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetExpired(ctx context.Context, now time.Time) ([]*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error
}

// WaitlistPromoter предлагает освободившееся время следующей заявке
type WaitlistPromoter interface {
	Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
