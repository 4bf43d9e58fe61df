package get_business_hours

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/settings/models"
)

type SettingsService interface {
	GetBusinessHours(ctx context.Context) (*models.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
