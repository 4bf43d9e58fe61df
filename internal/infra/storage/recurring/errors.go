package recurring

import "errors"

var (
	// ErrRecurringNotFound возвращается, когда шаблон не найден
	ErrRecurringNotFound = errors.New("recurring.repository: recurring appointment not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("recurring.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("recurring.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("recurring.repository: failed to scan row")
)
