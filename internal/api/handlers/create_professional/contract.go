package create_professional

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/professionals"
)

type ProfessionalService interface {
	Create(ctx context.Context, req *professionals.CreateRequest) (*professionals.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
