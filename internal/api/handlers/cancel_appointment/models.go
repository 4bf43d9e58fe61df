package cancel_appointment

import (
	"github.com/m04kA/SMC-NailSalon/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(actorID int64, byAdmin bool) *models.CancelRequest {
	return &models.CancelRequest{
		ActorID: actorID,
		ByAdmin: byAdmin,
		Reason:  r.Reason,
	}
}
