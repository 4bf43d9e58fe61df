package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// Service сервис листа ожидания
type Service struct {
	repo         WaitlistRepository
	serviceRepo  ServiceRepository
	promoter     WaitlistPromoter
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo WaitlistRepository, serviceRepo ServiceRepository, promoter WaitlistPromoter, logger Logger) *Service {
	return &Service{
		repo:         repo,
		serviceRepo:  serviceRepo,
		promoter:     promoter,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Join ставит клиента в очередь на услугу и дату
func (s *Service) Join(ctx context.Context, req *JoinRequest) (*EntryResponse, error) {
	s.logger.Info("Join: client=%d, service=%d, date=%s", req.ClientID, req.ServiceID, req.Date)

	// 1. Валидация
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	date, err := types.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}
	if date.Before(types.Today(s.timeProvider.Now())) {
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	}

	entry := &domain.WaitlistEntry{ClientID: req.ClientID, ServiceID: req.ServiceID, Date: date}
	if req.PreferredTime != nil {
		preferred := types.TimeString(*req.PreferredTime)
		if err := preferred.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid preferredTime", ErrInvalidInput)
		}
		entry.PreferredTime = &preferred
	}

	// 2. Услуга должна существовать и быть активной
	service, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Join: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Join - get service: %v", ErrInternal, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}

	// 3. Создаем заявку
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrAlreadyWaiting) {
			s.logger.Warn("Join: client=%d already waiting for service=%d on %s", req.ClientID, req.ServiceID, date)
			return nil, ErrAlreadyWaiting
		}
		s.logger.Error("Join: repository error: %v", err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Join: created waitlist entry id=%d", created.ID)
	resp := fromDomain(created)
	return &resp, nil
}

// Leave клиент покидает очередь
// Если клиенту уже было предложено время, оно передается следующему
func (s *Service) Leave(ctx context.Context, id, clientID int64) error {
	s.logger.Info("Leave: entry id=%d by client=%d", id, clientID)

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("Leave: repository error for entry id=%d: %v", id, err)
		return fmt.Errorf("%w: Leave - get entry: %v", ErrInternal, err)
	}
	if entry.ClientID != clientID {
		s.logger.Warn("Leave: access denied for client=%d to entry id=%d", clientID, id)
		return ErrAccessDenied
	}
	if !entry.IsActive() {
		return ErrNotActive
	}

	err = s.repo.UpdateStatus(ctx, id,
		[]domain.WaitlistStatus{domain.WaitlistWaiting, domain.WaitlistNotified},
		domain.WaitlistCancelled, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrStatusConflict) {
			return ErrNotActive
		}
		s.logger.Error("Leave: repository error for entry id=%d: %v", id, err)
		return fmt.Errorf("%w: Leave - update status: %v", ErrInternal, err)
	}

	if entry.Status == domain.WaitlistNotified && entry.OfferedTime != nil {
		if _, err := s.promoter.Execute(ctx, entry.ServiceID, entry.Date, *entry.OfferedTime); err != nil {
			s.logger.Warn("Leave: failed to pass offer of entry id=%d to next client: %v", id, err)
		}
	}
	return nil
}

// Mine заявки клиента
func (s *Service) Mine(ctx context.Context, clientID int64) (*ListResponse, error) {
	entries, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		s.logger.Error("Mine: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: Mine - repository error: %v", ErrInternal, err)
	}
	return fromDomainList(entries), nil
}

// List заявки для администратора по дате и статусу
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	filter := domain.WaitlistFilter{ServiceID: req.ServiceID}
	if req.Date != nil {
		date, err := types.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		filter.Date = &date
	}
	if req.Status != nil {
		status := domain.WaitlistStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return fromDomainList(entries), nil
}
