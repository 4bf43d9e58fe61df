package email

import "errors"

var (
	// ErrInvalidConfig возвращается при некорректных настройках SMTP
	ErrInvalidConfig = errors.New("email client: invalid configuration")

	// ErrInvalidMessage возвращается, когда письмо не удалось собрать (адрес, заголовки)
	ErrInvalidMessage = errors.New("email client: invalid message")

	// ErrSend возвращается при ошибке доставки на SMTP сервер
	ErrSend = errors.New("email client: failed to send")
)
