package domain

import (
	"errors"
	"math"
	"time"
)

// DiscountType тип скидки купона
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

var (
	ErrCouponInactive    = errors.New("coupon is inactive")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
	ErrCouponBelowMin    = errors.New("amount is below coupon minimum")
)

// Coupon промокод на скидку
type Coupon struct {
	ID           int64
	Code         string
	DiscountType DiscountType
	Value        float64
	MinAmount    float64
	MaxUses      int // 0 = без ограничений
	UsedCount    int
	ValidFrom    *time.Time
	ValidUntil   *time.Time
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Check проверяет применимость купона к сумме amount в момент at
func (c *Coupon) Check(amount float64, at time.Time) error {
	switch {
	case !c.Active:
		return ErrCouponInactive
	case c.ValidFrom != nil && at.Before(*c.ValidFrom):
		return ErrCouponNotYetValid
	case c.ValidUntil != nil && at.After(*c.ValidUntil):
		return ErrCouponExpired
	case c.MaxUses > 0 && c.UsedCount >= c.MaxUses:
		return ErrCouponExhausted
	case amount < c.MinAmount:
		return ErrCouponBelowMin
	}
	return nil
}

// Discount размер скидки для суммы amount; фиксированная скидка не превышает сумму
func (c *Coupon) Discount(amount float64) float64 {
	var d float64
	switch c.DiscountType {
	case DiscountPercent:
		d = amount * c.Value / 100
	case DiscountFixed:
		d = c.Value
	}
	if d > amount {
		d = amount
	}
	if d < 0 {
		d = 0
	}
	return Round2(d)
}

// Round2 округление денежной суммы до копеек
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
