package list_recurring

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/recurring"
)

type RecurringService interface {
	List(ctx context.Context, clientID *int64) (*recurring.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
