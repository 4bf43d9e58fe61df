package send_reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetDueForReminder(ctx context.Context, from, to types.Date) ([]*domain.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64, at time.Time) error
}

// Notifier уведомления о записях
type Notifier interface {
	AppointmentEvent(ctx context.Context, event domain.NotificationEvent, a *domain.Appointment, reason *string)
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
