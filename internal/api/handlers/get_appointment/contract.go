package get_appointment

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id, userID int64, isAdmin bool) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
