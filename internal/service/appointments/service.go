package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	commissionRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/commission"
	professionalRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/professional"
	"github.com/m04kA/SMC-NailSalon/internal/service/appointments/models"
	"github.com/m04kA/SMC-NailSalon/internal/usecase/cancel_appointment"
)

const entityAppointment = "appointment"

// Service сервис для работы с записями
type Service struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	commissionRepo   CommissionRepository
	canceller        Canceller
	cache            SlotsCache
	notifier         Notifier
	audit            AuditRecorder
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	professionalRepo ProfessionalRepository,
	commissionRepo CommissionRepository,
	canceller Canceller,
	cache SlotsCache,
	notifier Notifier,
	audit AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		commissionRepo:   commissionRepo,
		canceller:        canceller,
		cache:            cache,
		notifier:         notifier,
		audit:            audit,
		txManager:        txManager,
		timeProvider:     realTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
// Клиент видит только свою запись, администратор - любую
func (s *Service) GetByID(ctx context.Context, id, userID int64, isAdmin bool) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && appointment.ClientID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListMine получает записи клиента, опционально по статусу
func (s *Service) ListMine(ctx context.Context, clientID int64, status *string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListMine: fetching appointments for client=%d, status=%v", clientID, status)

	var domainStatus *domain.AppointmentStatus
	if status != nil {
		st, err := models.ToDomainStatus(*status)
		if err != nil {
			s.logger.Warn("ListMine: invalid status=%s for client=%d", *status, clientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &st
	}

	appointments, err := s.appointmentRepo.GetByClientID(ctx, clientID, domainStatus)
	if err != nil {
		s.logger.Error("ListMine: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMine: successfully fetched %d appointments for client=%d", len(appointments), clientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// List список записей салона с фильтрацией (для администратора)
//
// Примеры использования:
// - Все активные записи: List(ctx, &ListRequest{})
// - Записи на дату: StartDate и EndDate указывают на одну дату
// - Записи мастера: указать ProfessionalID
// - Включая отмененные и завершенные: IncludeInactive = true
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись от имени клиента или администратора
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	cancelled, err := s.canceller.Execute(ctx, &cancel_appointment.Request{
		AppointmentID: id,
		ActorID:       req.ActorID,
		ByAdmin:       req.ByAdmin,
		Reason:        req.Reason,
	})
	if err != nil {
		return nil, translateCancelError(err)
	}

	if req.ByAdmin {
		s.audit.Record(ctx, req.ActorID, domain.AuditStatusChange, entityAppointment, &cancelled.ID,
			map[string]interface{}{"status": cancelled.Status, "reason": cancelled.CancellationReason})
	}
	return models.FromDomainAppointment(cancelled), nil
}

// UpdateStatus меняет статус записи (только администратор)
// pending → confirmed уведомляет клиента, завершение начисляет комиссию мастеру,
// отмена идет тем же путем, что и отмена клиентом
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, req.ActorID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if newStatus == domain.StatusCancelled {
		return s.Cancel(ctx, id, &models.CancelRequest{ActorID: req.ActorID, ByAdmin: true, Reason: req.Reason})
	}

	appointment, err := s.get(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(appointment.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d",
			appointment.Status, newStatus, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
	}

	now := s.timeProvider.Now()
	from := appointment.Status

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.appointmentRepo.UpdateStatus(txCtx, id, from, newStatus, now); err != nil {
			return err
		}
		if newStatus == domain.StatusCompleted && appointment.ProfessionalID != nil {
			return s.createCommission(txCtx, appointment)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrStatusConflict):
			s.logger.Warn("UpdateStatus: appointment id=%d changed concurrently", id)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - update: %v", ErrInternal, err)
	}

	appointment.Status = newStatus
	appointment.UpdatedAt = now
	if newStatus == domain.StatusCompleted {
		appointment.CompletedAt = &now
	}

	// Завершенная запись больше не занимает интервал
	if err := s.cache.InvalidateDate(ctx, appointment.Date); err != nil {
		s.logger.Warn("UpdateStatus: failed to invalidate slots cache for %s: %v", appointment.Date, err)
	}

	if newStatus == domain.StatusConfirmed {
		s.notifier.AppointmentEvent(ctx, domain.EventAppointmentConfirmed, appointment, nil)
	}
	s.audit.Record(ctx, req.ActorID, domain.AuditStatusChange, entityAppointment, &appointment.ID,
		map[string]interface{}{"from": from, "to": newStatus})

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return models.FromDomainAppointment(appointment), nil
}

// createCommission начисляет комиссию мастеру по завершенной записи
func (s *Service) createCommission(ctx context.Context, a *domain.Appointment) error {
	pro, err := s.professionalRepo.GetByID(ctx, *a.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("UpdateStatus: professional id=%d of appointment id=%d not found, commission skipped",
				*a.ProfessionalID, a.ID)
			return nil
		}
		return err
	}

	_, err = s.commissionRepo.Create(ctx, &domain.Commission{
		AppointmentID:  a.ID,
		ProfessionalID: pro.ID,
		Amount:         domain.CalculateCommission(a.FinalPrice, pro.CommissionRate),
		Rate:           pro.CommissionRate,
		Status:         domain.CommissionPending,
	})
	if errors.Is(err, commissionRepo.ErrCommissionExists) {
		return nil
	}
	return err
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func translateCancelError(err error) error {
	switch {
	case errors.Is(err, cancel_appointment.ErrAppointmentNotFound):
		return ErrAppointmentNotFound
	case errors.Is(err, cancel_appointment.ErrForbidden):
		return ErrAccessDenied
	case errors.Is(err, cancel_appointment.ErrCannotCancel):
		return ErrCannotCancel
	case errors.Is(err, cancel_appointment.ErrTooLateToCancel):
		return ErrTooLateToCancel
	case errors.Is(err, cancel_appointment.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: Cancel - %v", ErrInternal, err)
}
