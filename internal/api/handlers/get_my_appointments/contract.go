package get_my_appointments

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/appointments/models"
)

type AppointmentService interface {
	ListMine(ctx context.Context, clientID int64, status *string) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
