package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда заявка не найдена
	ErrEntryNotFound = errors.New("waitlist entry not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrAlreadyWaiting возвращается при повторной заявке на ту же услугу и дату
	ErrAlreadyWaiting = errors.New("already waiting for this service and date")

	// ErrNotActive возвращается, когда заявка уже не участвует в очереди
	ErrNotActive = errors.New("waitlist entry is not active")

	// ErrAccessDenied возвращается при попытке изменить чужую заявку
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
