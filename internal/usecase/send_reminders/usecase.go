package send_reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// UseCase напоминает клиентам о подтвержденных записях, начинающихся в ближайшие часы
type UseCase struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	window          time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case; window - за сколько до начала напоминать
func NewUseCase(appointmentRepo AppointmentRepository, notifier Notifier, window time.Duration, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		window:          window,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отправляет напоминания и возвращает их количество
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	now := uc.timeProvider.Now()
	horizon := now.Add(uc.window)

	// 1. Кандидаты по датам; точное окно проверяется по времени начала
	due, err := uc.appointmentRepo.GetDueForReminder(ctx, types.Today(now), types.Today(horizon))
	if err != nil {
		uc.logger.Error("SendReminders: failed to get appointments: %v", err)
		return 0, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	sent := 0
	for _, a := range due {
		startsAt := a.StartsAt(now.Location())
		if !startsAt.After(now) || startsAt.After(horizon) {
			continue
		}

		// 2. Сначала отмечаем, чтобы не напомнить дважды при сбое доставки
		if err := uc.appointmentRepo.MarkReminderSent(ctx, a.ID, now); err != nil {
			uc.logger.Error("SendReminders: failed to mark appointment id=%d: %v", a.ID, err)
			return sent, fmt.Errorf("%w: failed to mark reminder: %v", ErrInternal, err)
		}
		uc.notifier.AppointmentEvent(ctx, domain.EventAppointmentReminder, a, nil)
		sent++
	}

	if sent > 0 {
		uc.logger.Info("SendReminders: sent %d reminders", sent)
	}
	return sent, nil
}
