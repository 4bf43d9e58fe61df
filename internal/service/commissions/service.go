package commissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	commissionRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/commission"
)

const entityCommission = "commission"

var errInvalidStatus = errors.New("status must be pending or paid")

// Service сервис комиссий мастеров
type Service struct {
	repo   CommissionRepository
	audit  AuditRecorder
	now    func() time.Time
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo CommissionRepository, audit AuditRecorder, logger Logger) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now, logger: logger}
}

// List комиссии по фильтру с суммами к выплате и выплаченными
// Суммы считаются по всему фильтру без учета статуса
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	totals, err := s.repo.Totals(ctx, filter)
	if err != nil {
		s.logger.Error("List: failed to get totals: %v", err)
		return nil, fmt.Errorf("%w: List - totals: %v", ErrInternal, err)
	}

	resp := &ListResponse{
		Commissions: make([]Response, 0, len(list)),
		Totals:      TotalsResponse{Pending: totals.Pending, Paid: totals.Paid},
	}
	for _, c := range list {
		resp.Commissions = append(resp.Commissions, fromDomain(c))
	}
	return resp, nil
}

// MarkPaid отмечает комиссию выплаченной
func (s *Service) MarkPaid(ctx context.Context, id, actorID int64) (*Response, error) {
	s.logger.Info("MarkPaid: commission id=%d by user=%d", id, actorID)

	if err := s.repo.MarkPaid(ctx, id, s.now()); err != nil {
		switch {
		case errors.Is(err, commissionRepo.ErrCommissionNotFound):
			return nil, ErrCommissionNotFound
		case errors.Is(err, commissionRepo.ErrAlreadyPaid):
			return nil, ErrAlreadyPaid
		}
		s.logger.Error("MarkPaid: repository error for commission id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("MarkPaid: failed to reload commission id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: MarkPaid - reload: %v", ErrInternal, err)
	}

	resp := fromDomain(c)
	s.audit.Record(ctx, actorID, domain.AuditStatusChange, entityCommission, &id, map[string]string{"status": string(c.Status)})
	return &resp, nil
}
