package create_coupon

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

type CouponService interface {
	Create(ctx context.Context, req *coupons.CreateRequest) (*coupons.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
