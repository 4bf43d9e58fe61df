package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	couponRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/coupon"
	professionalRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/professional"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	userRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/user"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-NailSalon/pkg/metrics"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

// UseCase use case для создания записи
type UseCase struct {
	serviceRepo      ServiceRepository
	userRepo         UserRepository
	professionalRepo ProfessionalRepository
	settingsRepo     SettingsRepository
	appointmentRepo  AppointmentRepository
	timeBlockRepo    TimeBlockRepository
	couponRepo       CouponRepository
	waitlistRepo     WaitlistRepository
	cache            SlotsCache
	notifier         Notifier
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger

	metrics     *metrics.Metrics
	serviceName string
}

// Deps зависимости use case
type Deps struct {
	Services      ServiceRepository
	Users         UserRepository
	Professionals ProfessionalRepository
	Settings      SettingsRepository
	Appointments  AppointmentRepository
	TimeBlocks    TimeBlockRepository
	Coupons       CouponRepository
	Waitlist      WaitlistRepository
	Cache         SlotsCache
	Notifier      Notifier
	TxManager     TransactionManager
	Logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(d Deps) *UseCase {
	return &UseCase{
		serviceRepo:      d.Services,
		userRepo:         d.Users,
		professionalRepo: d.Professionals,
		settingsRepo:     d.Settings,
		appointmentRepo:  d.Appointments,
		timeBlockRepo:    d.TimeBlocks,
		couponRepo:       d.Coupons,
		waitlistRepo:     d.Waitlist,
		cache:            d.Cache,
		notifier:         d.Notifier,
		txManager:        d.TxManager,
		timeProvider:     &RealTimeProvider{},
		logger:           d.Logger,
	}
}

// WithMetrics включает счетчик созданных записей
func (uc *UseCase) WithMetrics(m *metrics.Metrics, serviceName string) *UseCase {
	uc.metrics = m
	uc.serviceName = serviceName
	return uc
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи
// Все проверки расписания повторяются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: client=%d, service=%d, professional=%d, date=%s, time=%s, by_admin=%t",
		req.ClientID, req.ServiceID, ptr.Deref(req.ProfessionalID, 0), req.Date, req.StartTime, req.ByAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем клиента
	client, err := uc.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}
	if !client.Active || client.Role != domain.RoleClient {
		uc.logger.Warn("CreateAppointment: user id=%d cannot be booked as a client", req.ClientID)
		return nil, ErrClientNotFound
	}

	// 5. Проверяем мастера, если он выбран
	if req.ProfessionalID != nil {
		pro, err := uc.professionalRepo.GetByID(ctx, *req.ProfessionalID)
		if err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				uc.logger.Warn("CreateAppointment: professional id=%d not found", *req.ProfessionalID)
				return nil, ErrProfessionalNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get professional id=%d: %v", *req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
		if !pro.Active {
			uc.logger.Warn("CreateAppointment: professional id=%d is inactive", *req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем конфигурацию с учетом иерархии
		cfg, err := uc.settingsRepo.GetConfigWithHierarchy(txCtx, &req.ServiceID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrConfigNotFound) {
				uc.logger.Error("CreateAppointment: failed to get config: %v", err)
				return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
			}
			cfg = domain.DefaultSchedulingConfig()
		}

		// 6.2. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, cfg.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 6.3. Получаем часы работы на указанную дату
		week, err := uc.settingsRepo.ListBusinessHours(txCtx)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get business hours: %v", err)
			return fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
		}
		hours := domain.HoursFor(week, req.Date)
		if !hours.IsOpen {
			uc.logger.Warn("CreateAppointment: salon is closed on %s", req.Date)
			return ErrSalonClosed
		}

		// 6.4. Проверяем minBookingNoticeMinutes
		if err := validateNotice(req.Date, req.StartTime, now, cfg.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
			return err
		}

		// 6.5. Получаем блокировки и активные записи дня (с блокировкой строк)
		blocks, err := uc.timeBlockRepo.GetByDate(txCtx, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get time blocks: %v", err)
			return fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
		}

		appointments, err := uc.appointmentRepo.GetWithFilter(txCtx, domain.AppointmentFilter{
			StartDate: &req.Date,
			EndDate:   &req.Date,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.6. Проверяем слот: сетка и часы работы, блокировки, вместимость
		if err := domain.CheckSlot(hours, cfg, req.StartTime, service.DurationMinutes, blocks, appointments, req.ProfessionalID); err != nil {
			uc.logger.Warn("CreateAppointment: slot %s %s rejected: %v", req.Date, req.StartTime, err)
			switch {
			case errors.Is(err, domain.ErrSlotBlocked):
				return ErrSlotBlocked
			case errors.Is(err, domain.ErrNoCapacity):
				return ErrSlotNotAvailable
			default:
				return ErrInvalidTimeSlot
			}
		}

		appointment := &domain.Appointment{
			ClientID:        req.ClientID,
			ServiceID:       req.ServiceID,
			ProfessionalID:  req.ProfessionalID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			// Денормализация данных услуги
			ServiceName: service.Name,
			Price:       service.Price,
			FinalPrice:  service.Price,
			Notes:       req.Notes,
		}

		// 6.7. Применяем купон
		if req.CouponCode != nil {
			if err := uc.applyCoupon(txCtx, *req.CouponCode, appointment, now); err != nil {
				return err
			}
		}

		// 6.8. Закрываем заявку листа ожидания
		if req.WaitlistID != nil {
			if err := uc.convertWaitlist(txCtx, *req.WaitlistID, req, now); err != nil {
				return err
			}
			appointment.WaitlistID = req.WaitlistID
		}

		// 6.9. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 7. После фиксации: сбрасываем кэш слотов дня и уведомляем
	if err := uc.cache.InvalidateDate(ctx, result.Date); err != nil {
		uc.logger.Warn("CreateAppointment: failed to invalidate slots cache for %s: %v", result.Date, err)
	}
	if uc.metrics != nil {
		uc.metrics.AppointmentsCreated.WithLabelValues(uc.serviceName, req.Source()).Inc()
	}
	uc.notifier.AppointmentEvent(ctx, domain.EventAppointmentCreated, result, nil)

	return result, nil
}

// applyCoupon проверяет купон, увеличивает счетчик использований и проставляет скидку
func (uc *UseCase) applyCoupon(ctx context.Context, code string, a *domain.Appointment, now time.Time) error {
	coupon, err := uc.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			uc.logger.Warn("CreateAppointment: coupon %q not found", code)
			return fmt.Errorf("%w: coupon not found", ErrInvalidCoupon)
		}
		uc.logger.Error("CreateAppointment: failed to get coupon %q: %v", code, err)
		return fmt.Errorf("%w: failed to get coupon: %v", ErrInternal, err)
	}

	if err := coupon.Check(a.Price, now); err != nil {
		uc.logger.Warn("CreateAppointment: coupon %q rejected: %v", coupon.Code, err)
		return fmt.Errorf("%w: %v", ErrInvalidCoupon, err)
	}

	if err := uc.couponRepo.IncrementUsage(ctx, coupon.ID); err != nil {
		if errors.Is(err, couponRepo.ErrUsageLimitReached) {
			uc.logger.Warn("CreateAppointment: coupon %q exhausted", coupon.Code)
			return fmt.Errorf("%w: %v", ErrInvalidCoupon, domain.ErrCouponExhausted)
		}
		uc.logger.Error("CreateAppointment: failed to increment coupon usage id=%d: %v", coupon.ID, err)
		return fmt.Errorf("%w: failed to increment coupon usage: %v", ErrInternal, err)
	}

	a.CouponID = &coupon.ID
	a.Discount = coupon.Discount(a.Price)
	a.FinalPrice = domain.Round2(a.Price - a.Discount)
	return nil
}

// convertWaitlist переводит уведомленную заявку клиента в converted
func (uc *UseCase) convertWaitlist(ctx context.Context, waitlistID int64, req *Request, now time.Time) error {
	entry, err := uc.waitlistRepo.GetByID(ctx, waitlistID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			uc.logger.Warn("CreateAppointment: waitlist entry id=%d not found", waitlistID)
			return ErrInvalidWaitlistEntry
		}
		uc.logger.Error("CreateAppointment: failed to get waitlist entry id=%d: %v", waitlistID, err)
		return fmt.Errorf("%w: failed to get waitlist entry: %v", ErrInternal, err)
	}

	if entry.ClientID != req.ClientID || entry.Status != domain.WaitlistNotified ||
		entry.ServiceID != req.ServiceID || !entry.Date.Equal(req.Date) {
		uc.logger.Warn("CreateAppointment: waitlist entry id=%d does not match request (status=%s)", waitlistID, entry.Status)
		return ErrInvalidWaitlistEntry
	}
	if entry.ExpiresAt != nil && entry.ExpiresAt.Before(now) {
		uc.logger.Warn("CreateAppointment: waitlist entry id=%d offer expired", waitlistID)
		return ErrInvalidWaitlistEntry
	}

	err = uc.waitlistRepo.UpdateStatus(ctx, waitlistID, []domain.WaitlistStatus{domain.WaitlistNotified}, domain.WaitlistConverted, now)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrStatusConflict) || errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return ErrInvalidWaitlistEntry
		}
		uc.logger.Error("CreateAppointment: failed to convert waitlist entry id=%d: %v", waitlistID, err)
		return fmt.Errorf("%w: failed to convert waitlist entry: %v", ErrInternal, err)
	}
	return nil
}
