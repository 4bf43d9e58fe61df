package audit

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах выборки
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
