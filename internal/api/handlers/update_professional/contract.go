package update_professional

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/professionals"
)

type ProfessionalService interface {
	Update(ctx context.Context, id int64, req *professionals.UpdateRequest) (*professionals.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
