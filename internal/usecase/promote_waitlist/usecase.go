package promote_waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// UseCase предлагает освободившееся время первой подходящей заявке листа ожидания
type UseCase struct {
	waitlistRepo WaitlistRepository
	settingsRepo SettingsRepository
	serviceRepo  ServiceRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	waitlistRepo WaitlistRepository,
	settingsRepo SettingsRepository,
	serviceRepo ServiceRepository,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		waitlistRepo: waitlistRepo,
		settingsRepo: settingsRepo,
		serviceRepo:  serviceRepo,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute уведомляет самую раннюю подходящую заявку об освободившемся времени freed
// Возвращает nil, если подходящих заявок нет
func (uc *UseCase) Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error) {
	now := uc.timeProvider.Now()

	// 1. Прошедшие даты не предлагаем
	if date.Before(types.Today(now)) {
		return nil, nil
	}

	// 2. Ожидающие заявки в порядке очереди
	waiting, err := uc.waitlistRepo.GetWaiting(ctx, serviceID, date)
	if err != nil {
		uc.logger.Error("PromoteWaitlist: failed to get waiting entries service=%d date=%s: %v", serviceID, date, err)
		return nil, fmt.Errorf("%w: failed to get waiting entries: %v", ErrInternal, err)
	}
	if len(waiting) == 0 {
		return nil, nil
	}

	// 3. Срок удержания предложения
	cfg, err := uc.settingsRepo.GetConfigWithHierarchy(ctx, &serviceID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrConfigNotFound) {
			uc.logger.Error("PromoteWaitlist: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		cfg = domain.DefaultSchedulingConfig()
	}
	expiresAt := now.Add(time.Duration(cfg.WaitlistHoldMinutes) * time.Minute)

	// 4. Первая подходящая заявка; заявку, уже измененную параллельно, пропускаем
	for _, entry := range waiting {
		if !entry.Matches(serviceID, freed) {
			continue
		}

		err := uc.waitlistRepo.MarkNotified(ctx, entry.ID, freed, now, expiresAt)
		if err != nil {
			if errors.Is(err, waitlistRepo.ErrStatusConflict) || errors.Is(err, waitlistRepo.ErrEntryNotFound) {
				uc.logger.Warn("PromoteWaitlist: entry id=%d changed concurrently, trying next", entry.ID)
				continue
			}
			uc.logger.Error("PromoteWaitlist: failed to mark entry id=%d notified: %v", entry.ID, err)
			return nil, fmt.Errorf("%w: failed to mark entry notified: %v", ErrInternal, err)
		}

		entry.Status = domain.WaitlistNotified
		entry.OfferedTime = &freed
		entry.NotifiedAt = &now
		entry.ExpiresAt = &expiresAt

		uc.logger.Info("PromoteWaitlist: entry id=%d offered %s %s until %s", entry.ID, date, freed, expiresAt.Format(time.RFC3339))

		// 5. Уведомляем клиента; название услуги нужно только для текста
		serviceName := ""
		if service, err := uc.serviceRepo.GetByID(ctx, serviceID); err != nil {
			uc.logger.Warn("PromoteWaitlist: failed to get service id=%d for notification: %v", serviceID, err)
		} else {
			serviceName = service.Name
		}
		uc.notifier.WaitlistOffer(ctx, entry, serviceName)

		return entry, nil
	}

	return nil, nil
}
