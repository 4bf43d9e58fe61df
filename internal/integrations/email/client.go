package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/m04kA/SMC-NailSalon/internal/config"
)

// Client отправляет текстовые письма через SMTP
type Client struct {
	from      string
	transport Transport
	log       Logger
}

// NewClient создает SMTP клиент по настройкам
// UseTLS включает обязательный STARTTLS, иначе TLS используется, если сервер его поддерживает
func NewClient(cfg config.EmailConfig, log Logger) (*Client, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("%w: host and from are required", ErrInvalidConfig)
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(time.Duration(cfg.Timeout) * time.Second),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	transport, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return NewClientWithTransport(cfg.From, transport, log), nil
}

// NewClientWithTransport создает клиент поверх готового транспорта
func NewClientWithTransport(from string, transport Transport, log Logger) *Client {
	return &Client{from: from, transport: transport, log: log}
}

// Send отправляет письмо одному получателю
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	msg, err := c.BuildMessage(to, subject, body)
	if err != nil {
		return err
	}

	if err := c.transport.DialAndSendWithContext(ctx, msg); err != nil {
		c.log.Warn("Email delivery failed: to=%s, subject=%q, error=%v", to, subject, err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	c.log.Info("Email sent: to=%s, subject=%q", to, subject)
	return nil
}

// BuildMessage собирает текстовое письмо
func (c *Client) BuildMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return nil, fmt.Errorf("%w: from %q: %v", ErrInvalidMessage, c.from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: to %q: %v", ErrInvalidMessage, to, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
