package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrForbidden возвращается, когда клиент отменяет чужую запись
	ErrForbidden = errors.New("cancel_appointment: access denied")

	// ErrCannotCancel возвращается для отмененных и завершенных записей
	ErrCannotCancel = errors.New("cancel_appointment: appointment cannot be cancelled")

	// ErrTooLateToCancel возвращается, когда до начала осталось меньше cancellationNoticeMinutes
	ErrTooLateToCancel = errors.New("cancel_appointment: too late to cancel")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
