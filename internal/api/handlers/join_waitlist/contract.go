package join_waitlist

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/waitlist"
)

type WaitlistService interface {
	Join(ctx context.Context, req *waitlist.JoinRequest) (*waitlist.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
