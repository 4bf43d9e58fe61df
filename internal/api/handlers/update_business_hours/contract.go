package update_business_hours

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/settings/models"
)

type SettingsService interface {
	UpdateBusinessHours(ctx context.Context, req *models.UpdateBusinessHoursRequest) (*models.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
