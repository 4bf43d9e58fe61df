package gallery

import "errors"

var (
	// ErrImageNotFound возвращается, когда изображение не найдено
	ErrImageNotFound = errors.New("gallery.repository: image not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("gallery.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("gallery.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("gallery.repository: failed to scan row")
)
