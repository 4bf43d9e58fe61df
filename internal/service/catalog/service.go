package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-NailSalon/internal/service/catalog/models"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

const entityService = "service"

// Service сервис каталога услуг
type Service struct {
	repo   ServiceRepository
	cache  SlotsCache
	audit  AuditRecorder
	logger Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo ServiceRepository, cache SlotsCache, audit AuditRecorder, logger Logger) *Service {
	return &Service{repo: repo, cache: cache, audit: audit, logger: logger}
}

// List возвращает каталог; неактивные услуги видит только администратор
func (s *Service) List(ctx context.Context, filter domain.ServiceFilter) (*models.ServiceListResponse, error) {
	services, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainList(services), nil
}

// GetByID возвращает услугу; неактивная услуга для клиента не существует
func (s *Service) GetByID(ctx context.Context, id int64, includeInactive bool) (*models.ServiceResponse, error) {
	service, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	if !service.Active && !includeInactive {
		return nil, ErrServiceNotFound
	}
	return models.FromDomain(service), nil
}

// Create добавляет услугу в каталог
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q by user=%d", req.Name, req.ActorID)

	service := req.ToDomain()
	if err := normalize(service); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.audit.Record(ctx, req.ActorID, domain.AuditCreate, entityService, &created.ID, models.FromDomain(created))
	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomain(created), nil
}

// Update частично обновляет услугу
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d by user=%d", id, req.ActorID)

	service, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(service)
	if err := normalize(service); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	if err := s.repo.Update(ctx, service); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// Длительность меняет расчет слотов
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("Update: failed to invalidate slots cache: %v", err)
	}
	s.audit.Record(ctx, req.ActorID, domain.AuditUpdate, entityService, &service.ID, models.FromDomain(service))

	s.logger.Info("Update: successfully updated service id=%d", id)
	return models.FromDomain(service), nil
}

// Deactivate скрывает услугу; существующие записи сохраняются
func (s *Service) Deactivate(ctx context.Context, id, actorID int64) error {
	s.logger.Info("Deactivate: deactivating service id=%d by user=%d", id, actorID)

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("Deactivate: service id=%d not found", id)
			return ErrServiceNotFound
		}
		s.logger.Error("Deactivate: repository error for service id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.audit.Record(ctx, actorID, domain.AuditDelete, entityService, &id, nil)
	return nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Service, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return service, nil
}

// normalize очищает текстовые поля и проверяет ограничения услуги
func normalize(service *domain.Service) error {
	service.Name = sanitize.Text(service.Name)
	service.Description = sanitize.TextPtr(service.Description)
	service.Category = sanitize.TextPtr(service.Category)

	if service.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if service.DurationMinutes < domain.MinServiceDurationMinutes || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	service.Price = domain.Round2(service.Price)
	return nil
}
