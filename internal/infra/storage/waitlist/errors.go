package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist.repository: entry not found")

	// ErrAlreadyWaiting возвращается, когда у клиента уже есть активная заявка на эту услугу и дату
	ErrAlreadyWaiting = errors.New("waitlist.repository: client is already waiting for this service and date")

	// ErrStatusConflict возвращается, когда статус изменился параллельно
	ErrStatusConflict = errors.New("waitlist.repository: status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("waitlist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("waitlist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("waitlist.repository: failed to scan row")
)
