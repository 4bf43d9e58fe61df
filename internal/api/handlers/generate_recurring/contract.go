package generate_recurring

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/recurring"
)

type RecurringService interface {
	Generate(ctx context.Context, actorID int64) (*recurring.GenerateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
