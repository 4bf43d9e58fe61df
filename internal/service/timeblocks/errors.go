package timeblocks

import "errors"

var (
	// ErrTimeBlockNotFound возвращается, когда блокировка не найдена
	ErrTimeBlockNotFound = errors.New("time block not found")

	// ErrOverlapsAppointments возвращается, когда блокировка пересекает активные записи
	ErrOverlapsAppointments = errors.New("time block overlaps active appointments")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
