package email

import (
	"context"

	"github.com/wneessen/go-mail"
)

// Transport отправка готовых писем (реализуется *mail.Client)
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
