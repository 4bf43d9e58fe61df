package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

func TestCoupon_Check(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		coupon Coupon
		amount float64
		want   error
	}{
		{name: "valid", coupon: Coupon{Active: true}, amount: 50},
		{name: "inactive", coupon: Coupon{Active: false}, amount: 50, want: ErrCouponInactive},
		{name: "not yet valid", coupon: Coupon{Active: true, ValidFrom: ptr.Ptr(now.Add(time.Hour))}, amount: 50, want: ErrCouponNotYetValid},
		{name: "expired", coupon: Coupon{Active: true, ValidUntil: ptr.Ptr(now.Add(-time.Hour))}, amount: 50, want: ErrCouponExpired},
		{name: "exhausted", coupon: Coupon{Active: true, MaxUses: 2, UsedCount: 2}, amount: 50, want: ErrCouponExhausted},
		{name: "unlimited uses", coupon: Coupon{Active: true, MaxUses: 0, UsedCount: 1000}, amount: 50},
		{name: "below minimum", coupon: Coupon{Active: true, MinAmount: 100}, amount: 50, want: ErrCouponBelowMin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coupon.Check(tt.amount, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCoupon_Discount(t *testing.T) {
	percent := Coupon{DiscountType: DiscountPercent, Value: 15}
	assert.Equal(t, 7.5, percent.Discount(50))

	fixed := Coupon{DiscountType: DiscountFixed, Value: 30}
	assert.Equal(t, 30.0, fixed.Discount(80))
	assert.Equal(t, 20.0, fixed.Discount(20))
}

func TestCalculateCommission(t *testing.T) {
	assert.Equal(t, 13.33, CalculateCommission(33.33, 40))
	assert.Equal(t, 0.0, CalculateCommission(100, 0))
	assert.Equal(t, 45.0, CalculateCommission(90, 50))
}
