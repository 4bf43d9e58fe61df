package recurring

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	professionalRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/professional"
	recurringRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/recurring"
	userRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/user"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

const entityRecurring = "recurring_appointment"

// Service сервис повторяющихся записей
type Service struct {
	repo             RecurringRepository
	userRepo         UserRepository
	serviceRepo      ServiceRepository
	professionalRepo ProfessionalRepository
	generator        Generator
	horizonDays      int
	audit            AuditRecorder
	logger           Logger
}

// NewService создает новый экземпляр сервиса
// horizonDays - горизонт генерации при ручном запуске
func NewService(
	repo RecurringRepository,
	userRepo UserRepository,
	serviceRepo ServiceRepository,
	professionalRepo ProfessionalRepository,
	generator Generator,
	horizonDays int,
	audit AuditRecorder,
	logger Logger,
) *Service {
	return &Service{
		repo:             repo,
		userRepo:         userRepo,
		serviceRepo:      serviceRepo,
		professionalRepo: professionalRepo,
		generator:        generator,
		horizonDays:      horizonDays,
		audit:            audit,
		logger:           logger,
	}
}

// Create создает шаблон повторяющейся записи
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	s.logger.Info("Create: recurring %s for client=%d, service=%d by user=%d",
		req.Frequency, req.ClientID, req.ServiceID, req.ActorID)

	// 1. Валидация полей
	tmpl, err := toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка связанных сущностей
	if err := s.checkReferences(ctx, tmpl); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	created, err := s.repo.Create(ctx, tmpl)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	resp := fromDomain(created)
	s.audit.Record(ctx, req.ActorID, domain.AuditCreate, entityRecurring, &created.ID, resp)
	s.logger.Info("Create: successfully created recurring id=%d", created.ID)
	return &resp, nil
}

// List шаблоны, опционально одного клиента
func (s *Service) List(ctx context.Context, clientID *int64) (*ListResponse, error) {
	list, err := s.repo.List(ctx, clientID)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{Recurring: make([]Response, 0, len(list))}
	for _, r := range list {
		resp.Recurring = append(resp.Recurring, fromDomain(r))
	}
	return resp, nil
}

// Deactivate останавливает генерацию по шаблону; созданные записи не затрагиваются
func (s *Service) Deactivate(ctx context.Context, id, actorID int64) error {
	s.logger.Info("Deactivate: recurring id=%d by user=%d", id, actorID)

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			return ErrRecurringNotFound
		}
		s.logger.Error("Deactivate: repository error for recurring id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.audit.Record(ctx, actorID, domain.AuditUpdate, entityRecurring, &id, map[string]bool{"active": false})
	return nil
}

// Generate ручной запуск генерации записей
func (s *Service) Generate(ctx context.Context, actorID int64) (*GenerateResponse, error) {
	s.logger.Info("Generate: manual run by user=%d, horizon=%d days", actorID, s.horizonDays)

	res, err := s.generator.Execute(ctx, s.horizonDays)
	if err != nil {
		s.logger.Error("Generate: generation failed: %v", err)
		return nil, fmt.Errorf("%w: Generate - %v", ErrInternal, err)
	}
	return fromResult(res), nil
}

func (s *Service) checkReferences(ctx context.Context, tmpl *domain.RecurringAppointment) error {
	client, err := s.userRepo.GetByID(ctx, tmpl.ClientID)
	switch {
	case errors.Is(err, userRepo.ErrUserNotFound):
		return ErrClientNotFound
	case err != nil:
		s.logger.Error("Create: failed to get client id=%d: %v", tmpl.ClientID, err)
		return fmt.Errorf("%w: Create - get client: %v", ErrInternal, err)
	case !client.Active || client.Role != domain.RoleClient:
		return ErrClientNotFound
	}

	service, err := s.serviceRepo.GetByID(ctx, tmpl.ServiceID)
	switch {
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		return ErrServiceNotFound
	case err != nil:
		s.logger.Error("Create: failed to get service id=%d: %v", tmpl.ServiceID, err)
		return fmt.Errorf("%w: Create - get service: %v", ErrInternal, err)
	case !service.Active:
		return ErrServiceNotFound
	}

	if tmpl.ProfessionalID == nil {
		return nil
	}
	pro, err := s.professionalRepo.GetByID(ctx, *tmpl.ProfessionalID)
	switch {
	case errors.Is(err, professionalRepo.ErrProfessionalNotFound):
		return ErrProfessionalNotFound
	case err != nil:
		s.logger.Error("Create: failed to get professional id=%d: %v", *tmpl.ProfessionalID, err)
		return fmt.Errorf("%w: Create - get professional: %v", ErrInternal, err)
	case !pro.Active:
		return ErrProfessionalNotFound
	}
	return nil
}

func toDomain(req *CreateRequest) (*domain.RecurringAppointment, error) {
	if req.ClientID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: clientId and serviceId must be positive", ErrInvalidInput)
	}

	tmpl := &domain.RecurringAppointment{
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Frequency:      domain.Frequency(req.Frequency),
		StartTime:      types.TimeString(req.StartTime),
		Active:         true,
		Notes:          sanitize.TextPtr(req.Notes),
	}
	if !tmpl.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: frequency must be weekly, biweekly or monthly", ErrInvalidInput)
	}
	if err := tmpl.StartTime.Validate(); err != nil || tmpl.StartTime == "24:00" {
		return nil, fmt.Errorf("%w: invalid startTime", ErrInvalidInput)
	}

	start, err := types.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startDate", ErrInvalidInput)
	}
	tmpl.StartDate = start

	if req.EndDate != nil {
		end, err := types.ParseDate(*req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid endDate", ErrInvalidInput)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
		}
		tmpl.EndDate = &end
	}

	if tmpl.Notes != nil && sanitize.Length(*tmpl.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return tmpl, nil
}
