package update_coupon

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

type CouponService interface {
	Update(ctx context.Context, id int64, req *coupons.UpdateRequest) (*coupons.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
