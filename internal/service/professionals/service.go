package professionals

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	professionalRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/professional"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

const entityProfessional = "professional"

// Service сервис мастеров салона
type Service struct {
	repo   ProfessionalRepository
	audit  AuditRecorder
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo ProfessionalRepository, audit AuditRecorder, logger Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List публичный список активных мастеров; администратор видит всех и с контактами
func (s *Service) List(ctx context.Context, asAdmin bool) (*ListResponse, error) {
	pros, err := s.repo.List(ctx, asAdmin)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{Professionals: make([]Response, 0, len(pros))}
	for _, p := range pros {
		resp.Professionals = append(resp.Professionals, fromDomain(p, asAdmin))
	}
	return resp, nil
}

// Create добавляет мастера
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	s.logger.Info("Create: creating professional %q by user=%d", req.Name, req.ActorID)

	pro := &domain.Professional{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		Active:         true,
	}
	if err := normalize(pro); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, pro)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	resp := fromDomain(created, true)
	s.audit.Record(ctx, req.ActorID, domain.AuditCreate, entityProfessional, &created.ID, resp)
	s.logger.Info("Create: successfully created professional id=%d", created.ID)
	return &resp, nil
}

// Update частично обновляет мастера
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*Response, error) {
	s.logger.Info("Update: updating professional id=%d by user=%d", id, req.ActorID)

	pro, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("Update: professional id=%d not found", id)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("Update: repository error for professional id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	req.applyTo(pro)
	if err := normalize(pro); err != nil {
		s.logger.Warn("Update: validation failed for professional id=%d: %v", id, err)
		return nil, err
	}

	if err := s.repo.Update(ctx, pro); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("Update: repository error for professional id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	resp := fromDomain(pro, true)
	s.audit.Record(ctx, req.ActorID, domain.AuditUpdate, entityProfessional, &pro.ID, resp)
	return &resp, nil
}

func normalize(p *domain.Professional) error {
	p.Name = sanitize.Text(p.Name)
	p.Phone = sanitize.TextPtr(p.Phone)
	p.Email = sanitize.TextPtr(p.Email)

	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.CommissionRate < 0 || p.CommissionRate > 100 {
		return fmt.Errorf("%w: commissionRate must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}
