package delete_service_settings

import "context"

type SettingsService interface {
	DeleteServiceConfig(ctx context.Context, serviceID, actorID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
