package commissions

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// ListRequest фильтр списка комиссий
type ListRequest struct {
	ProfessionalID *int64
	Status         *string
	From           *string // "2026-11-01"
	To             *string
}

func (r *ListRequest) toDomain() (domain.CommissionFilter, error) {
	filter := domain.CommissionFilter{ProfessionalID: r.ProfessionalID}
	if r.Status != nil {
		status := domain.CommissionStatus(*r.Status)
		if status != domain.CommissionPending && status != domain.CommissionPaid {
			return filter, errInvalidStatus
		}
		filter.Status = &status
	}
	if r.From != nil {
		d, err := types.ParseDate(*r.From)
		if err != nil {
			return filter, err
		}
		filter.From = &d
	}
	if r.To != nil {
		d, err := types.ParseDate(*r.To)
		if err != nil {
			return filter, err
		}
		filter.To = &d
	}
	return filter, nil
}

// Response комиссия в ответе API
type Response struct {
	ID             int64      `json:"id"`
	AppointmentID  int64      `json:"appointmentId"`
	ProfessionalID int64      `json:"professionalId"`
	Amount         float64    `json:"amount"`
	Rate           float64    `json:"rate"`
	Status         string     `json:"status"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// TotalsResponse суммы по фильтру
type TotalsResponse struct {
	Pending float64 `json:"pending"`
	Paid    float64 `json:"paid"`
}

// ListResponse список комиссий с итогами
type ListResponse struct {
	Commissions []Response     `json:"commissions"`
	Totals      TotalsResponse `json:"totals"`
}

func fromDomain(c *domain.Commission) Response {
	return Response{
		ID:             c.ID,
		AppointmentID:  c.AppointmentID,
		ProfessionalID: c.ProfessionalID,
		Amount:         c.Amount,
		Rate:           c.Rate,
		Status:         string(c.Status),
		PaidAt:         c.PaidAt,
		CreatedAt:      c.CreatedAt,
	}
}
