package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// Ограничения постраничной выдачи
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Entry запись журнала в ответе API
type Entry struct {
	ID        int64           `json:"id"`
	ActorID   int64           `json:"actorId"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  *int64          `json:"entityId,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListResponse страница журнала
type ListResponse struct {
	Entries []Entry `json:"entries"`
	Limit   uint64  `json:"limit"`
	Offset  uint64  `json:"offset"`
}

// Service журнал действий администраторов
type Service struct {
	repo   Repository
	logger Logger
}

// NewService создает новый экземпляр сервиса аудита
func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record сохраняет действие администратора
// Ошибка записи журнала только логируется и не влияет на основную операцию
func (s *Service) Record(ctx context.Context, actorID int64, action, entity string, entityID *int64, details interface{}) {
	entry := &domain.AuditEntry{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}

	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("Record: failed to encode details for %s/%s: %v", entity, action, err)
		} else {
			entry.Details = raw
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Record: failed to save audit entry %s/%s by user=%d: %v", entity, action, actorID, err)
	}
}

// List возвращает страницу журнала
func (s *Service) List(ctx context.Context, filter domain.AuditFilter) (*ListResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be at most %d", ErrInvalidInput, MaxLimit)
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{
		Entries: make([]Entry, 0, len(entries)),
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, Entry{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp, nil
}
