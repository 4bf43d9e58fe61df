package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	professionalRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/professional"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	serviceRepo      ServiceRepository
	professionalRepo ProfessionalRepository
	settingsRepo     SettingsRepository
	appointmentRepo  AppointmentRepository
	timeBlockRepo    TimeBlockRepository
	cache            SlotsCache
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	professionalRepo ProfessionalRepository,
	settingsRepo SettingsRepository,
	appointmentRepo AppointmentRepository,
	timeBlockRepo TimeBlockRepository,
	cache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:      serviceRepo,
		professionalRepo: professionalRepo,
		settingsRepo:     settingsRepo,
		appointmentRepo:  appointmentRepo,
		timeBlockRepo:    timeBlockRepo,
		cache:            cache,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s, professional=%d",
		req.ServiceID, req.Date, ptr.Deref(req.ProfessionalID, 0))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем мастера, если он выбран
	if req.ProfessionalID != nil {
		pro, err := uc.professionalRepo.GetByID(ctx, *req.ProfessionalID)
		if err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				uc.logger.Warn("GetAvailableSlots: professional id=%d not found", *req.ProfessionalID)
				return nil, ErrProfessionalNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", *req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
		if !pro.Active {
			uc.logger.Warn("GetAvailableSlots: professional id=%d is inactive", *req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
	}

	// 5. Получаем конфигурацию с учетом иерархии
	cfg, err := uc.settingsRepo.GetConfigWithHierarchy(ctx, &req.ServiceID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrConfigNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		// Если конфигурация не найдена, используем дефолтные значения
		cfg = domain.DefaultSchedulingConfig()
		uc.logger.Info("GetAvailableSlots: using default config for service=%d", req.ServiceID)
	}

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:           req.Date,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
	}

	// 7. Пробуем взять рассчитанные слоты из кэша
	slots, found, err := uc.cache.Get(ctx, req.ServiceID, req.Date, req.ProfessionalID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache read failed: %v", err)
	}

	if !found {
		// 8. Рассчитываем слоты
		slots, err = uc.computeSlots(ctx, req, service, cfg)
		if err != nil {
			return nil, err
		}

		if err := uc.cache.Set(ctx, req.ServiceID, req.Date, req.ProfessionalID, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache write failed: %v", err)
		}
	}

	// 9. На сегодня убираем слоты, до которых осталось меньше minBookingNotice
	response.Slots = filterByNotice(slots, req.Date, now, cfg.MinBookingNoticeMinutes)

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d, date=%s (cached=%t)",
		len(response.Slots), req.ServiceID, req.Date, found)
	return response, nil
}

func (uc *UseCase) computeSlots(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	cfg *domain.SchedulingConfig,
) ([]domain.AvailableSlot, error) {
	week, err := uc.settingsRepo.ListBusinessHours(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	hours := domain.HoursFor(week, req.Date)
	if !hours.IsOpen {
		uc.logger.Info("GetAvailableSlots: salon is closed on %s", req.Date)
		return []domain.AvailableSlot{}, nil
	}

	blocks, err := uc.timeBlockRepo.GetByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetActiveByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	return buildSlots(hours, cfg, service.DurationMinutes, blocks, appointments, req.ProfessionalID), nil
}
