package list_commissions

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/commissions"
)

type CommissionService interface {
	List(ctx context.Context, req *commissions.ListRequest) (*commissions.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
