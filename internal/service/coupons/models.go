package coupons

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// CreateRequest запрос на создание купона
type CreateRequest struct {
	ActorID      int64      `json:"-"`
	Code         string     `json:"code"`
	DiscountType string     `json:"discountType"` // percent | fixed
	Value        float64    `json:"value"`
	MinAmount    float64    `json:"minAmount"`
	MaxUses      int        `json:"maxUses"` // 0 = без ограничений
	ValidFrom    *time.Time `json:"validFrom,omitempty"`
	ValidUntil   *time.Time `json:"validUntil,omitempty"`
}

// UpdateRequest частичное обновление условий купона
type UpdateRequest struct {
	ActorID      int64      `json:"-"`
	DiscountType *string    `json:"discountType,omitempty"`
	Value        *float64   `json:"value,omitempty"`
	MinAmount    *float64   `json:"minAmount,omitempty"`
	MaxUses      *int       `json:"maxUses,omitempty"`
	ValidFrom    *time.Time `json:"validFrom,omitempty"`
	ValidUntil   *time.Time `json:"validUntil,omitempty"`
	Active       *bool      `json:"active,omitempty"`
}

// Response купон в ответе API
type Response struct {
	ID           int64      `json:"id"`
	Code         string     `json:"code"`
	DiscountType string     `json:"discountType"`
	Value        float64    `json:"value"`
	MinAmount    float64    `json:"minAmount"`
	MaxUses      int        `json:"maxUses"`
	UsedCount    int        `json:"usedCount"`
	ValidFrom    *time.Time `json:"validFrom,omitempty"`
	ValidUntil   *time.Time `json:"validUntil,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ListResponse список купонов
type ListResponse struct {
	Coupons []Response `json:"coupons"`
}

// ValidateResponse результат проверки купона для суммы
type ValidateResponse struct {
	Code        string  `json:"code"`
	Amount      float64 `json:"amount"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"finalAmount"`
}

func fromDomain(c *domain.Coupon) Response {
	return Response{
		ID:           c.ID,
		Code:         c.Code,
		DiscountType: string(c.DiscountType),
		Value:        c.Value,
		MinAmount:    c.MinAmount,
		MaxUses:      c.MaxUses,
		UsedCount:    c.UsedCount,
		ValidFrom:    c.ValidFrom,
		ValidUntil:   c.ValidUntil,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
	}
}

func (r *UpdateRequest) applyTo(c *domain.Coupon) {
	if r.DiscountType != nil {
		c.DiscountType = domain.DiscountType(*r.DiscountType)
	}
	if r.Value != nil {
		c.Value = *r.Value
	}
	if r.MinAmount != nil {
		c.MinAmount = *r.MinAmount
	}
	if r.MaxUses != nil {
		c.MaxUses = *r.MaxUses
	}
	if r.ValidFrom != nil {
		c.ValidFrom = r.ValidFrom
	}
	if r.ValidUntil != nil {
		c.ValidUntil = r.ValidUntil
	}
	if r.Active != nil {
		c.Active = *r.Active
	}
}
