package get_settings

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/settings/models"
)

type SettingsService interface {
	GetEffective(ctx context.Context, serviceID *int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
