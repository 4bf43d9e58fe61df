package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	"github.com/m04kA/SMC-NailSalon/internal/service/settings/models"
)

const entityConfig = "scheduling_config"
const entityBusinessHours = "business_hours"

// Service сервис настроек расписания и часов работы
type Service struct {
	settingsRepo SettingsRepository
	serviceRepo  ServiceRepository
	cache        SlotsCache
	audit        AuditRecorder
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	serviceRepo ServiceRepository,
	cache SlotsCache,
	audit AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		serviceRepo:  serviceRepo,
		cache:        cache,
		audit:        audit,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetEffective возвращает действующую конфигурацию для услуги
// Иерархия: услуга → глобальная → значения по умолчанию
func (s *Service) GetEffective(ctx context.Context, serviceID *int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetEffective: fetching config for service=%v", serviceID)

	config, err := s.effective(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetEffective: resolved config id=%d (level: %s)", config.ID, configLevel(config))
	return models.FromDomainConfig(config), nil
}

// List возвращает все сохраненные конфигурации
func (s *Service) List(ctx context.Context) (*models.ConfigListResponse, error) {
	configs, err := s.settingsRepo.ListConfigs(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d configs", len(configs))
	return models.FromDomainConfigList(configs), nil
}

// Upsert сохраняет глобальную конфигурацию или конфигурацию услуги
// Поддерживает частичное обновление - незаданные поля берутся из действующей конфигурации
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: saving config for service=%v by user=%d", req.ServiceID, req.ActorID)

	// 1. Если указан serviceID, проверяем существование услуги
	if req.ServiceID != nil {
		if _, err := s.serviceRepo.GetByID(ctx, *req.ServiceID); err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				s.logger.Warn("Upsert: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 2. Берем за основу действующую конфигурацию (создаём копию для валидации)
	base, err := s.effective(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	config := *base
	req.ApplyToConfig(&config)

	// 3. Валидируем итоговые данные
	if err := validateConfig(&config); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	var saved *domain.SchedulingConfig
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.settingsRepo.Upsert(txCtx, &config)
		return err
	})
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	// 5. Доступность на все даты рассчитана по старым настройкам
	s.invalidateCache(ctx, "Upsert")
	s.audit.Record(ctx, req.ActorID, domain.AuditUpdate, entityConfig, &saved.ID, models.FromDomainConfig(saved))

	s.logger.Info("Upsert: successfully saved config id=%d (level: %s)", saved.ID, configLevel(saved))
	return models.FromDomainConfig(saved), nil
}

// DeleteServiceConfig удаляет конфигурацию услуги, после чего действует глобальная
func (s *Service) DeleteServiceConfig(ctx context.Context, serviceID, actorID int64) error {
	s.logger.Info("DeleteServiceConfig: deleting config for service=%d by user=%d", serviceID, actorID)

	if err := s.settingsRepo.DeleteServiceConfig(ctx, serviceID); err != nil {
		if errors.Is(err, settingsRepo.ErrConfigNotFound) {
			s.logger.Warn("DeleteServiceConfig: config for service=%d not found", serviceID)
			return ErrConfigNotFound
		}
		s.logger.Error("DeleteServiceConfig: repository error for service=%d: %v", serviceID, err)
		return fmt.Errorf("%w: DeleteServiceConfig - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx, "DeleteServiceConfig")
	s.audit.Record(ctx, actorID, domain.AuditDelete, entityConfig, nil, map[string]int64{"serviceId": serviceID})

	s.logger.Info("DeleteServiceConfig: successfully deleted config for service=%d", serviceID)
	return nil
}

// GetBusinessHours возвращает часы работы на неделю
func (s *Service) GetBusinessHours(ctx context.Context) (*models.WeekResponse, error) {
	week, err := s.settingsRepo.ListBusinessHours(ctx)
	if err != nil {
		s.logger.Error("GetBusinessHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBusinessHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(week), nil
}

// UpdateBusinessHours обновляет часы работы указанных дней недели в одной транзакции
func (s *Service) UpdateBusinessHours(ctx context.Context, req *models.UpdateBusinessHoursRequest) (*models.WeekResponse, error) {
	s.logger.Info("UpdateBusinessHours: updating %d days by user=%d", len(req.Days), req.ActorID)

	// 1. Валидируем все дни до записи
	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: days are required", ErrInvalidInput)
	}
	seen := make(map[int]bool, len(req.Days))
	for _, day := range req.Days {
		if err := validateBusinessHours(day); err != nil {
			s.logger.Warn("UpdateBusinessHours: validation failed: %v", err)
			return nil, err
		}
		if seen[int(day.Weekday)] {
			return nil, fmt.Errorf("%w: weekday %d is repeated", ErrInvalidInput, day.Weekday)
		}
		seen[int(day.Weekday)] = true
	}

	// 2. Сохраняем
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, day := range req.Days {
			if err := s.settingsRepo.UpsertBusinessHours(txCtx, day.ToDomain()); err != nil {
				return fmt.Errorf("%w: UpsertBusinessHours - repository error: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateBusinessHours: %v", err)
		return nil, err
	}

	s.invalidateCache(ctx, "UpdateBusinessHours")
	s.audit.Record(ctx, req.ActorID, domain.AuditUpdate, entityBusinessHours, nil, req.Days)

	s.logger.Info("UpdateBusinessHours: successfully updated %d days", len(req.Days))
	return s.GetBusinessHours(ctx)
}

// Вспомогательные методы

// effective действующая конфигурация с подстановкой значений по умолчанию
func (s *Service) effective(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error) {
	config, err := s.settingsRepo.GetConfigWithHierarchy(ctx, serviceID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrConfigNotFound) {
			return domain.DefaultSchedulingConfig(), nil
		}
		s.logger.Error("effective: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - repository error: %v", ErrInternal, err)
	}
	return config, nil
}

func (s *Service) invalidateCache(ctx context.Context, op string) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate slots cache: %v", op, err)
	}
}

// validateConfig валидирует параметры конфигурации
func validateConfig(c *domain.SchedulingConfig) error {
	// Проверяем slotDurationMinutes
	if c.SlotDurationMinutes < domain.MinSlotDurationMinutes || c.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	// Проверяем maxConcurrentBookings
	if c.MaxConcurrentBookings < domain.MinConcurrentBookings || c.MaxConcurrentBookings > domain.MaxConcurrentBookings {
		return fmt.Errorf("%w: maxConcurrentBookings must be between %d and %d",
			ErrInvalidInput, domain.MinConcurrentBookings, domain.MaxConcurrentBookings)
	}

	// Проверяем advanceBookingDays
	if c.AdvanceBookingDays < 0 || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	// Проверяем minBookingNoticeMinutes
	if c.MinBookingNoticeMinutes < 0 || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBookingNoticeMinutes)
	}

	if c.CancellationNoticeMinutes < 0 || c.CancellationNoticeMinutes > domain.MaxCancellationNotice {
		return fmt.Errorf("%w: cancellationNoticeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxCancellationNotice)
	}

	if c.WaitlistHoldMinutes <= 0 || c.WaitlistHoldMinutes > domain.MaxWaitlistHoldMinutes {
		return fmt.Errorf("%w: waitlistHoldMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxWaitlistHoldMinutes)
	}

	return nil
}

// validateBusinessHours проверяет день недели и интервал работы
func validateBusinessHours(day models.BusinessHoursRequest) error {
	if day.Weekday < 0 || day.Weekday > 6 {
		return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}
	if !day.IsOpen {
		return nil
	}
	if err := day.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
	}
	if err := day.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
	}
	if !day.OpenTime.IsBefore(day.CloseTime) {
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}
	return nil
}

// configLevel возвращает строковое представление уровня конфигурации для логирования
func configLevel(config *domain.SchedulingConfig) string {
	switch {
	case config.ID == 0:
		return "default"
	case config.IsGlobalConfig():
		return "global"
	default:
		return "service"
	}
}
