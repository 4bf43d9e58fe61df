package whatsapp

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("whatsapp client: internal error")

	// ErrInvalidPhone возвращается, когда номер не похож на международный формат
	ErrInvalidPhone = errors.New("whatsapp client: invalid phone number")

	// ErrRejected возвращается, когда API отклонило сообщение (повтор не поможет)
	ErrRejected = errors.New("whatsapp client: message rejected")

	// ErrUnauthorized возвращается при неверном или просроченном токене
	ErrUnauthorized = errors.New("whatsapp client: unauthorized")

	// ErrUnavailable возвращается при сетевых ошибках, 429 и 5xx (можно повторить)
	ErrUnavailable = errors.New("whatsapp client: service unavailable")
)
