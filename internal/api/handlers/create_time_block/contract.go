package create_time_block

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/timeblocks"
)

type TimeBlockService interface {
	Create(ctx context.Context, req *timeblocks.CreateRequest) (*timeblocks.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
