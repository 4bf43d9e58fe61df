package validate_coupon

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

type CouponService interface {
	Validate(ctx context.Context, code string, amount float64) (*coupons.ValidateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
