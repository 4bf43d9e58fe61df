package list_professionals

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/professionals"
)

type ProfessionalService interface {
	List(ctx context.Context, asAdmin bool) (*professionals.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
