package timeblocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	timeblockRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/timeblock"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

const (
	entityTimeBlock = "time_block"

	// maxRangeDays ограничение диапазона дат в списке
	maxRangeDays = 366
)

// Service сервис блокировок времени
type Service struct {
	repo            TimeBlockRepository
	appointmentRepo AppointmentRepository
	cache           SlotsCache
	audit           AuditRecorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	repo TimeBlockRepository,
	appointmentRepo AppointmentRepository,
	cache SlotsCache,
	audit AuditRecorder,
	logger Logger,
) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		audit:           audit,
		logger:          logger,
	}
}

// Create создает блокировку
// Если на это время уже есть активные записи, блокировка отклоняется, пока не указан force
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	s.logger.Info("Create: time block %s %s-%s by user=%d", req.Date, req.StartTime, req.EndTime, req.ActorID)

	// 1. Валидация
	block, err := toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Пересечения с активными записями
	appointments, err := s.appointmentRepo.GetActiveByDate(ctx, block.Date)
	if err != nil {
		s.logger.Error("Create: failed to get appointments for %s: %v", block.Date, err)
		return nil, fmt.Errorf("%w: Create - get appointments: %v", ErrInternal, err)
	}

	conflicts := make([]int64, 0)
	for _, a := range appointments {
		if domain.FindBlockingTimeBlock(a.StartTime, a.DurationMinutes, []*domain.TimeBlock{block}, a.ProfessionalID) != nil {
			conflicts = append(conflicts, a.ID)
		}
	}
	if len(conflicts) > 0 && !req.Force {
		s.logger.Warn("Create: time block overlaps %d appointments on %s", len(conflicts), block.Date)
		return nil, fmt.Errorf("%w: %v", ErrOverlapsAppointments, conflicts)
	}

	// 3. Сохраняем
	created, err := s.repo.Create(ctx, block)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, created.Date)

	resp := fromDomain(created)
	if len(conflicts) > 0 {
		resp.ConflictingAppointments = conflicts
	}
	s.audit.Record(ctx, req.ActorID, domain.AuditCreate, entityTimeBlock, &created.ID, resp)

	s.logger.Info("Create: successfully created time block id=%d", created.ID)
	return &resp, nil
}

// List блокировки в диапазоне дат
func (s *Service) List(ctx context.Context, from, to string) (*ListResponse, error) {
	fromDate, err := types.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid from date", ErrInvalidInput)
	}
	toDate, err := types.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid to date", ErrInvalidInput)
	}
	if toDate.Before(fromDate) || toDate.After(fromDate.AddDays(maxRangeDays)) {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}

	blocks, err := s.repo.GetByDateRange(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{TimeBlocks: make([]Response, 0, len(blocks))}
	for _, b := range blocks {
		resp.TimeBlocks = append(resp.TimeBlocks, fromDomain(b))
	}
	return resp, nil
}

// Delete удаляет блокировку
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	s.logger.Info("Delete: deleting time block id=%d by user=%d", id, actorID)

	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	s.invalidate(ctx, block.Date)
	s.audit.Record(ctx, actorID, domain.AuditDelete, entityTimeBlock, &id, fromDomain(block))
	return nil
}

func (s *Service) invalidate(ctx context.Context, date types.Date) {
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		s.logger.Warn("TimeBlocks: failed to invalidate slots cache for %s: %v", date, err)
	}
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, timeblockRepo.ErrTimeBlockNotFound) {
		s.logger.Warn("%s: time block id=%d not found", op, id)
		return ErrTimeBlockNotFound
	}
	s.logger.Error("%s: repository error for time block id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func toDomain(req *CreateRequest) (*domain.TimeBlock, error) {
	date, err := types.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	block := &domain.TimeBlock{
		Date:           date,
		StartTime:      types.TimeString(req.StartTime),
		EndTime:        types.TimeString(req.EndTime),
		ProfessionalID: req.ProfessionalID,
		Reason:         sanitize.TextPtr(req.Reason),
		CreatedBy:      req.ActorID,
	}
	if err := block.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid startTime", ErrInvalidInput)
	}
	if err := block.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid endTime", ErrInvalidInput)
	}
	if !block.IsValidRange() {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	if block.ProfessionalID != nil && *block.ProfessionalID <= 0 {
		return nil, fmt.Errorf("%w: invalid professionalId", ErrInvalidInput)
	}
	return block, nil
}
