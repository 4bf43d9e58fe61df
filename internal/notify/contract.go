package notify

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// Channel канал доставки
type Channel interface {
	Name() domain.Channel
	// Address адрес получателя в канале; пустая строка - канал для получателя недоступен
	Address(r domain.Recipient) string
	Deliver(ctx context.Context, address string, msg Message) error
}

// LogStore журнал попыток доставки
type LogStore interface {
	Create(ctx context.Context, l *domain.NotificationLog) error
}

// EmailSender отправка писем (реализуется email.Client)
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// WhatsAppSender отправка сообщений WhatsApp (реализуется whatsapp.Client)
type WhatsAppSender interface {
	SendText(ctx context.Context, phone, body string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
