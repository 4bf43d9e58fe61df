package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

// UseCase use case для отмены записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	couponRepo      CouponRepository
	settingsRepo    SettingsRepository
	cache           SlotsCache
	notifier        Notifier
	promoter        WaitlistPromoter
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	couponRepo CouponRepository,
	settingsRepo SettingsRepository,
	cache SlotsCache,
	notifier Notifier,
	promoter WaitlistPromoter,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		couponRepo:      couponRepo,
		settingsRepo:    settingsRepo,
		cache:           cache,
		notifier:        notifier,
		promoter:        promoter,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отменяет запись, возвращает купон и предлагает время листу ожидания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CancelAppointment: id=%d, actor=%d, by_admin=%t", req.AppointmentID, req.ActorID, req.ByAdmin)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 || req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}
	req.Reason = sanitize.TextPtr(req.Reason)
	if req.Reason != nil && sanitize.Length(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := uc.timeProvider.Now()

	// 2. Получаем запись
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 3. Клиент отменяет только свою запись
	if !req.ByAdmin && appointment.ClientID != req.ActorID {
		uc.logger.Warn("CancelAppointment: user id=%d is not the owner of appointment id=%d", req.ActorID, req.AppointmentID)
		return nil, ErrForbidden
	}

	// 4. Проверяем статус
	if !appointment.CanBeCancelled() {
		uc.logger.Warn("CancelAppointment: appointment id=%d has status %s", req.AppointmentID, appointment.Status)
		return nil, ErrCannotCancel
	}

	// 5. Клиент не может отменить запись позже cancellationNoticeMinutes до начала
	if !req.ByAdmin {
		if err := uc.checkNotice(ctx, appointment, now); err != nil {
			return nil, err
		}
	}

	// 6. Отмена и возврат купона в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.Cancel(txCtx, appointment.ID, req.Reason, now); err != nil {
			if errors.Is(err, appointmentRepo.ErrCannotCancel) {
				uc.logger.Warn("CancelAppointment: appointment id=%d changed concurrently", appointment.ID)
				return ErrCannotCancel
			}
			uc.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		if appointment.CouponID != nil {
			if err := uc.couponRepo.ReleaseUsage(txCtx, *appointment.CouponID); err != nil {
				uc.logger.Error("CancelAppointment: failed to release coupon id=%d: %v", *appointment.CouponID, err)
				return fmt.Errorf("%w: failed to release coupon: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = domain.StatusCancelled
	appointment.CancellationReason = req.Reason
	appointment.CancelledAt = &now

	uc.logger.Info("CancelAppointment: appointment id=%d cancelled", appointment.ID)

	// 7. Сбрасываем кэш и уведомляем
	if err := uc.cache.InvalidateDate(ctx, appointment.Date); err != nil {
		uc.logger.Warn("CancelAppointment: failed to invalidate slots cache for %s: %v", appointment.Date, err)
	}
	uc.notifier.AppointmentEvent(ctx, domain.EventAppointmentCancelled, appointment, req.Reason)

	// 8. Предлагаем освободившееся время листу ожидания; ошибка не отменяет отмену
	if _, err := uc.promoter.Execute(ctx, appointment.ServiceID, appointment.Date, appointment.StartTime); err != nil {
		uc.logger.Warn("CancelAppointment: waitlist promotion failed for appointment id=%d: %v", appointment.ID, err)
	}

	return appointment, nil
}

func (uc *UseCase) checkNotice(ctx context.Context, a *domain.Appointment, now time.Time) error {
	cfg, err := uc.settingsRepo.GetConfigWithHierarchy(ctx, &a.ServiceID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrConfigNotFound) {
			uc.logger.Error("CancelAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		cfg = domain.DefaultSchedulingConfig()
	}

	deadline := a.StartsAt(now.Location()).Add(-time.Duration(cfg.CancellationNoticeMinutes) * time.Minute)
	if now.After(deadline) {
		uc.logger.Warn("CancelAppointment: appointment id=%d starts in less than %d minutes", a.ID, cfg.CancellationNoticeMinutes)
		return fmt.Errorf("%w: must cancel at least %d minutes in advance", ErrTooLateToCancel, cfg.CancellationNoticeMinutes)
	}
	return nil
}
