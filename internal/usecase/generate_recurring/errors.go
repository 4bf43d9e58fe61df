package generate_recurring

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном горизонте генерации
	ErrInvalidInput = errors.New("generate_recurring: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_recurring: internal error")

	// errSkip внутренний сигнал пропуска вхождения
	errSkip = errors.New("generate_recurring: occurrence skipped")
)
