package mark_commission_paid

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/commissions"
)

type CommissionService interface {
	MarkPaid(ctx context.Context, id, actorID int64) (*commissions.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
