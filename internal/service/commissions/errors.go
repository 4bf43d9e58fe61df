package commissions

import "errors"

var (
	// ErrCommissionNotFound возвращается, когда комиссия не найдена
	ErrCommissionNotFound = errors.New("commission not found")

	// ErrAlreadyPaid возвращается при повторной выплате
	ErrAlreadyPaid = errors.New("commission already paid")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
