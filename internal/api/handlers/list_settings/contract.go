package list_settings

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/settings/models"
)

type SettingsService interface {
	List(ctx context.Context) (*models.ConfigListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
