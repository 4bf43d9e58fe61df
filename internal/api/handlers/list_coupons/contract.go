package list_coupons

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

type CouponService interface {
	List(ctx context.Context) (*coupons.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
