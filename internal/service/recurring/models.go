package recurring

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/usecase/generate_recurring"
)

// CreateRequest запрос на создание повторяющейся записи
type CreateRequest struct {
	ActorID        int64   `json:"-"`
	ClientID       int64   `json:"clientId"`
	ServiceID      int64   `json:"serviceId"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	Frequency      string  `json:"frequency"` // weekly | biweekly | monthly
	StartDate      string  `json:"startDate"`
	EndDate        *string `json:"endDate,omitempty"`
	StartTime      string  `json:"startTime"`
	Notes          *string `json:"notes,omitempty"`
}

// Response шаблон в ответе API
type Response struct {
	ID                int64     `json:"id"`
	ClientID          int64     `json:"clientId"`
	ServiceID         int64     `json:"serviceId"`
	ProfessionalID    *int64    `json:"professionalId,omitempty"`
	Frequency         string    `json:"frequency"`
	StartDate         string    `json:"startDate"`
	EndDate           *string   `json:"endDate,omitempty"`
	StartTime         string    `json:"startTime"`
	Active            bool      `json:"active"`
	LastGeneratedDate *string   `json:"lastGeneratedDate,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ListResponse список шаблонов
type ListResponse struct {
	Recurring []Response `json:"recurring"`
}

// SkippedResponse пропущенное вхождение
type SkippedResponse struct {
	RecurringID int64  `json:"recurringId"`
	Date        string `json:"date"`
	Reason      string `json:"reason"`
}

// GenerateResponse итог ручного запуска генерации
type GenerateResponse struct {
	Created        int               `json:"created"`
	AppointmentIDs []int64           `json:"appointmentIds"`
	Skipped        []SkippedResponse `json:"skipped"`
}

func fromDomain(r *domain.RecurringAppointment) Response {
	resp := Response{
		ID:             r.ID,
		ClientID:       r.ClientID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		Frequency:      string(r.Frequency),
		StartDate:      r.StartDate.String(),
		StartTime:      r.StartTime.String(),
		Active:         r.Active,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
	if r.EndDate != nil {
		s := r.EndDate.String()
		resp.EndDate = &s
	}
	if r.LastGeneratedDate != nil {
		s := r.LastGeneratedDate.String()
		resp.LastGeneratedDate = &s
	}
	return resp
}

func fromResult(res *generate_recurring.Result) *GenerateResponse {
	resp := &GenerateResponse{
		Created:        len(res.Created),
		AppointmentIDs: make([]int64, 0, len(res.Created)),
		Skipped:        make([]SkippedResponse, 0, len(res.Skipped)),
	}
	for _, a := range res.Created {
		resp.AppointmentIDs = append(resp.AppointmentIDs, a.ID)
	}
	for _, s := range res.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedResponse{RecurringID: s.RecurringID, Date: s.Date.String(), Reason: s.Reason})
	}
	return resp
}
