package list_time_blocks

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/timeblocks"
)

type TimeBlockService interface {
	List(ctx context.Context, from, to string) (*timeblocks.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
