package create_appointment

import (
	"errors"

	createAppointment "github.com/m04kA/SMC-NailSalon/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

var errMissingClient = errors.New("clientId is required")

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID       *int64  `json:"clientId,omitempty"` // только для администратора
	ServiceID      int64   `json:"serviceId"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	Date           string  `json:"date"`      // "2026-11-02"
	StartTime      string  `json:"startTime"` // "10:00"
	CouponCode     *string `json:"couponCode,omitempty"`
	WaitlistID     *int64  `json:"waitlistId,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Клиент всегда записывает себя; администратор указывает clientId
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64, isAdmin bool) (*createAppointment.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	clientID := userID
	if isAdmin {
		if r.ClientID == nil {
			return nil, errMissingClient
		}
		clientID = *r.ClientID
	}

	return &createAppointment.Request{
		ClientID:       clientID,
		ByAdmin:        isAdmin,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		Date:           date,
		StartTime:      startTime,
		CouponCode:     r.CouponCode,
		WaitlistID:     r.WaitlistID,
		Notes:          r.Notes,
	}, nil
}
