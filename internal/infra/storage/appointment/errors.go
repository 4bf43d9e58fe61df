package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrCannotCancel возвращается, когда запись уже не активна
	ErrCannotCancel = errors.New("appointment.repository: appointment cannot be cancelled")

	// ErrStatusConflict возвращается, когда статус изменился параллельно
	ErrStatusConflict = errors.New("appointment.repository: status changed concurrently")

	// ErrDuplicateOccurrence возвращается при повторной генерации вхождения повторяющейся записи
	ErrDuplicateOccurrence = errors.New("appointment.repository: recurring occurrence already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
