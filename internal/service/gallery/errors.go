package gallery

import "errors"

var (
	// ErrImageNotFound возвращается, когда изображение не найдено
	ErrImageNotFound = errors.New("image not found")

	// ErrUnsupportedType возвращается для файлов кроме jpeg, png и webp
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge возвращается, когда файл превышает лимит
	ErrTooLarge = errors.New("image is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
