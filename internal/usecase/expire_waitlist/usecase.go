package expire_waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
)

// Result итог прогона
type Result struct {
	Expired  int
	Promoted int
}

// UseCase закрывает просроченные предложения и передает время следующему в очереди
type UseCase struct {
	waitlistRepo WaitlistRepository
	promoter     WaitlistPromoter
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(waitlistRepo WaitlistRepository, promoter WaitlistPromoter, logger Logger) *UseCase {
	return &UseCase{
		waitlistRepo: waitlistRepo,
		promoter:     promoter,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переводит notified заявки с истекшим expires_at в expired
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()

	// 1. Просроченные предложения
	expired, err := uc.waitlistRepo.GetExpired(ctx, now)
	if err != nil {
		uc.logger.Error("ExpireWaitlist: failed to get expired entries: %v", err)
		return nil, fmt.Errorf("%w: failed to get expired entries: %v", ErrInternal, err)
	}

	result := &Result{}
	for _, entry := range expired {
		// 2. notified → expired; заявку, которую клиент успел использовать, не трогаем
		err := uc.waitlistRepo.UpdateStatus(ctx, entry.ID, []domain.WaitlistStatus{domain.WaitlistNotified}, domain.WaitlistExpired, now)
		if err != nil {
			if errors.Is(err, waitlistRepo.ErrStatusConflict) || errors.Is(err, waitlistRepo.ErrEntryNotFound) {
				uc.logger.Warn("ExpireWaitlist: entry id=%d changed concurrently, skipping", entry.ID)
				continue
			}
			uc.logger.Error("ExpireWaitlist: failed to expire entry id=%d: %v", entry.ID, err)
			return result, fmt.Errorf("%w: failed to expire entry: %v", ErrInternal, err)
		}
		result.Expired++

		// 3. Предлагаем то же время следующему
		if entry.OfferedTime == nil {
			continue
		}
		next, err := uc.promoter.Execute(ctx, entry.ServiceID, entry.Date, *entry.OfferedTime)
		if err != nil {
			uc.logger.Warn("ExpireWaitlist: promotion after entry id=%d failed: %v", entry.ID, err)
			continue
		}
		if next != nil {
			result.Promoted++
		}
	}

	if result.Expired > 0 {
		uc.logger.Info("ExpireWaitlist: expired=%d, promoted=%d", result.Expired, result.Promoted)
	}
	return result, nil
}
