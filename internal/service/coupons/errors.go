package coupons

import "errors"

var (
	// ErrCouponNotFound возвращается, когда купон не найден
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCodeTaken возвращается, когда код купона уже занят
	ErrCodeTaken = errors.New("coupon code already exists")

	// ErrNotApplicable возвращается, когда купон нельзя применить к сумме
	ErrNotApplicable = errors.New("coupon is not applicable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
