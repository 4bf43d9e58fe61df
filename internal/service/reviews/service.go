package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	reviewRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/review"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

const entityReview = "review"

// Service сервис отзывов
type Service struct {
	repo            ReviewRepository
	appointmentRepo AppointmentRepository
	audit           AuditRecorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo ReviewRepository, appointmentRepo AppointmentRepository, audit AuditRecorder, logger Logger) *Service {
	return &Service{repo: repo, appointmentRepo: appointmentRepo, audit: audit, logger: logger}
}

// Create оставляет отзыв на свою завершенную запись
// Отзыв появляется в публичном списке после одобрения администратором
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	s.logger.Info("Create: review for appointment id=%d by client=%d", req.AppointmentID, req.ClientID)

	// 1. Валидация
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	comment := sanitize.TextPtr(req.Comment)
	if comment != nil && sanitize.Length(*comment) > domain.MaxReviewCommentLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}

	// 2. Запись должна принадлежать клиенту и быть завершенной
	appointment, err := s.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Create: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Create - get appointment: %v", ErrInternal, err)
	}
	if appointment.ClientID != req.ClientID {
		s.logger.Warn("Create: appointment id=%d does not belong to client=%d", req.AppointmentID, req.ClientID)
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status != domain.StatusCompleted {
		return nil, ErrNotCompleted
	}

	// 3. Сохраняем
	created, err := s.repo.Create(ctx, &domain.Review{
		AppointmentID: appointment.ID,
		ClientID:      req.ClientID,
		ServiceID:     appointment.ServiceID,
		Rating:        req.Rating,
		Comment:       comment,
	})
	if err != nil {
		if errors.Is(err, reviewRepo.ErrAlreadyReviewed) {
			return nil, ErrAlreadyReviewed
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created review id=%d", created.ID)
	resp := fromDomain(created)
	return &resp, nil
}

// ListPublic одобренные отзывы со средней оценкой, опционально по услуге
func (s *Service) ListPublic(ctx context.Context, serviceID *int64) (*ListResponse, error) {
	list, err := s.repo.ListApproved(ctx, serviceID)
	if err != nil {
		s.logger.Error("ListPublic: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPublic - repository error: %v", ErrInternal, err)
	}

	summary, err := s.repo.Summary(ctx, serviceID)
	if err != nil {
		s.logger.Error("ListPublic: failed to get summary: %v", err)
		return nil, fmt.Errorf("%w: ListPublic - summary: %v", ErrInternal, err)
	}

	resp := fromDomainList(list)
	resp.Count = summary.Count
	resp.AverageRating = domain.Round2(summary.AverageRating)
	return resp, nil
}

// ListAll все отзывы для модерации
func (s *Service) ListAll(ctx context.Context, pendingOnly bool) (*ListResponse, error) {
	list, err := s.repo.ListAll(ctx, pendingOnly)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}
	return fromDomainList(list), nil
}

// Approve одобряет отзыв
func (s *Service) Approve(ctx context.Context, id, actorID int64) error {
	if err := s.repo.Approve(ctx, id); err != nil {
		return s.mapRepoError("Approve", id, err)
	}
	s.audit.Record(ctx, actorID, domain.AuditUpdate, entityReview, &id, map[string]bool{"approved": true})
	return nil
}

// Delete удаляет отзыв
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}
	s.audit.Record(ctx, actorID, domain.AuditDelete, entityReview, &id, nil)
	return nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, reviewRepo.ErrReviewNotFound) {
		s.logger.Warn("%s: review id=%d not found", op, id)
		return ErrReviewNotFound
	}
	s.logger.Error("%s: repository error for review id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
