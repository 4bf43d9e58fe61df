package get_my_waitlist

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/waitlist"
)

type WaitlistService interface {
	Mine(ctx context.Context, clientID int64) (*waitlist.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
