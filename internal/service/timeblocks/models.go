package timeblocks

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CreateRequest запрос на создание блокировки
type CreateRequest struct {
	ActorID        int64   `json:"-"`
	Date           string  `json:"date"`      // "2026-11-02"
	StartTime      string  `json:"startTime"` // "13:00"
	EndTime        string  `json:"endTime"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	// Force создает блокировку, даже если на это время уже есть записи
	Force bool `json:"force,omitempty"`
}

// Response блокировка в ответе API
type Response struct {
	ID             int64     `json:"id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	ProfessionalID *int64    `json:"professionalId,omitempty"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedBy      int64     `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	// ConflictingAppointments записи, пересекающиеся с блокировкой (при force)
	ConflictingAppointments []int64 `json:"conflictingAppointments,omitempty"`
}

// ListResponse список блокировок
type ListResponse struct {
	TimeBlocks []Response `json:"timeBlocks"`
}

func fromDomain(b *domain.TimeBlock) Response {
	return Response{
		ID:             b.ID,
		Date:           b.Date.String(),
		StartTime:      b.StartTime.String(),
		EndTime:        b.EndTime.String(),
		ProfessionalID: b.ProfessionalID,
		Reason:         b.Reason,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
	}
}
