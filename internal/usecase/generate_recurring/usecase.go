package generate_recurring

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	"github.com/m04kA/SMC-NailSalon/pkg/metrics"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// UseCase материализует вхождения повторяющихся записей на горизонт вперед
type UseCase struct {
	recurringRepo   RecurringRepository
	serviceRepo     ServiceRepository
	settingsRepo    SettingsRepository
	appointmentRepo AppointmentRepository
	timeBlockRepo   TimeBlockRepository
	cache           SlotsCache
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	metrics     *metrics.Metrics
	serviceName string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	recurringRepo RecurringRepository,
	serviceRepo ServiceRepository,
	settingsRepo SettingsRepository,
	appointmentRepo AppointmentRepository,
	timeBlockRepo TimeBlockRepository,
	cache SlotsCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		recurringRepo:   recurringRepo,
		serviceRepo:     serviceRepo,
		settingsRepo:    settingsRepo,
		appointmentRepo: appointmentRepo,
		timeBlockRepo:   timeBlockRepo,
		cache:           cache,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
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

// Execute генерирует записи до today+horizonDays включительно
// Повторный запуск не создает дублей: last_generated_date сдвигается после каждого шаблона
func (uc *UseCase) Execute(ctx context.Context, horizonDays int) (*Result, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive", ErrInvalidInput)
	}

	today := types.Today(uc.timeProvider.Now())
	until := today.AddDays(horizonDays)

	uc.logger.Info("GenerateRecurring: horizon=%d days, until=%s", horizonDays, until)

	// 1. Активные шаблоны
	templates, err := uc.recurringRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GenerateRecurring: failed to list templates: %v", err)
		return nil, fmt.Errorf("%w: failed to list templates: %v", ErrInternal, err)
	}

	result := &Result{
		Created: make([]*domain.Appointment, 0),
		Skipped: make([]domain.SkippedOccurrence, 0),
	}

	// 2. Каждый шаблон обрабатывается независимо
	for _, tmpl := range templates {
		if err := uc.generate(ctx, tmpl, today, until, result); err != nil {
			return result, err
		}
	}

	uc.logger.Info("GenerateRecurring: created=%d, skipped=%d", len(result.Created), len(result.Skipped))
	return result, nil
}

func (uc *UseCase) generate(ctx context.Context, tmpl *domain.RecurringAppointment, today, until types.Date, result *Result) error {
	dates := tmpl.Occurrences(until)
	if len(dates) == 0 {
		return nil
	}

	service, err := uc.serviceRepo.GetByID(ctx, tmpl.ServiceID)
	if err != nil && !errors.Is(err, catalogRepo.ErrServiceNotFound) {
		uc.logger.Error("GenerateRecurring: failed to get service id=%d: %v", tmpl.ServiceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	for _, date := range dates {
		// Прошедшие вхождения только сдвигают last_generated_date
		if date.Before(today) {
			continue
		}

		if service == nil || !service.Active {
			uc.skip(result, tmpl, date, domain.SkipReasonInactive)
			continue
		}

		created, reason, err := uc.createOccurrence(ctx, tmpl, service, date)
		if err != nil {
			return err
		}
		if reason != "" {
			uc.skip(result, tmpl, date, reason)
			continue
		}
		if created == nil {
			continue
		}

		result.Created = append(result.Created, created)
		if err := uc.cache.InvalidateDate(ctx, date); err != nil {
			uc.logger.Warn("GenerateRecurring: failed to invalidate slots cache for %s: %v", date, err)
		}
		if uc.metrics != nil {
			uc.metrics.AppointmentsCreated.WithLabelValues(uc.serviceName, SourceRecurring).Inc()
		}
	}

	last := dates[len(dates)-1]
	if err := uc.recurringRepo.SetLastGenerated(ctx, tmpl.ID, last); err != nil {
		uc.logger.Error("GenerateRecurring: failed to advance template id=%d: %v", tmpl.ID, err)
		return fmt.Errorf("%w: failed to advance template: %v", ErrInternal, err)
	}
	return nil
}

// createOccurrence проверяет слот и создает подтвержденную запись
// Возвращает причину пропуска, если записать нельзя; nil без причины означает, что вхождение уже создано ранее
func (uc *UseCase) createOccurrence(ctx context.Context, tmpl *domain.RecurringAppointment, service *domain.Service, date types.Date) (*domain.Appointment, string, error) {
	var (
		created *domain.Appointment
		reason  string
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		cfg, err := uc.settingsRepo.GetConfigWithHierarchy(txCtx, &tmpl.ServiceID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrConfigNotFound) {
				return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
			}
			cfg = domain.DefaultSchedulingConfig()
		}

		week, err := uc.settingsRepo.ListBusinessHours(txCtx)
		if err != nil {
			return fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
		}
		hours := domain.HoursFor(week, date)
		if !hours.IsOpen {
			reason = domain.SkipReasonClosed
			return errSkip
		}

		blocks, err := uc.timeBlockRepo.GetByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
		}
		appointments, err := uc.appointmentRepo.GetActiveByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		if err := domain.CheckSlot(hours, cfg, tmpl.StartTime, service.DurationMinutes, blocks, appointments, tmpl.ProfessionalID); err != nil {
			switch {
			case errors.Is(err, domain.ErrSlotBlocked):
				reason = domain.SkipReasonBlocked
			case errors.Is(err, domain.ErrNoCapacity):
				reason = domain.SkipReasonNoCapacity
			default:
				reason = domain.SkipReasonOutsideHours
			}
			return errSkip
		}

		created, err = uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ClientID:        tmpl.ClientID,
			ServiceID:       tmpl.ServiceID,
			ProfessionalID:  tmpl.ProfessionalID,
			Date:            date,
			StartTime:       tmpl.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusConfirmed,
			ServiceName:     service.Name,
			Price:           service.Price,
			FinalPrice:      service.Price,
			RecurringID:     &tmpl.ID,
			Notes:           tmpl.Notes,
		})
		if err != nil {
			return err
		}
		return nil
	})

	switch {
	case err == nil:
		uc.logger.Info("GenerateRecurring: template id=%d created appointment id=%d on %s", tmpl.ID, created.ID, date)
		return created, "", nil
	case errors.Is(err, errSkip):
		return nil, reason, nil
	case errors.Is(err, appointmentRepo.ErrDuplicateOccurrence):
		uc.logger.Warn("GenerateRecurring: template id=%d already has an appointment on %s", tmpl.ID, date)
		return nil, "", nil
	default:
		uc.logger.Error("GenerateRecurring: template id=%d on %s failed: %v", tmpl.ID, date, err)
		if errors.Is(err, ErrInternal) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}
}

func (uc *UseCase) skip(result *Result, tmpl *domain.RecurringAppointment, date types.Date, reason string) {
	uc.logger.Warn("GenerateRecurring: template id=%d skipped %s: %s", tmpl.ID, date, reason)
	result.Skipped = append(result.Skipped, domain.SkippedOccurrence{
		RecurringID: tmpl.ID,
		Date:        date,
		Reason:      reason,
	})
}
