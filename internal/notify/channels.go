package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/email"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/whatsapp"
)

// EmailChannel доставка по email
type EmailChannel struct {
	sender EmailSender
}

// NewEmailChannel создает канал email
func NewEmailChannel(sender EmailSender) *EmailChannel {
	return &EmailChannel{sender: sender}
}

func (c *EmailChannel) Name() domain.Channel { return domain.ChannelEmail }

func (c *EmailChannel) Address(r domain.Recipient) string { return r.Email }

func (c *EmailChannel) Deliver(ctx context.Context, address string, msg Message) error {
	err := c.sender.Send(ctx, address, msg.Subject, msg.Body)
	if errors.Is(err, email.ErrInvalidMessage) {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	return err
}

// WhatsAppChannel доставка через WhatsApp
type WhatsAppChannel struct {
	sender WhatsAppSender
}

// NewWhatsAppChannel создает канал WhatsApp
func NewWhatsAppChannel(sender WhatsAppSender) *WhatsAppChannel {
	return &WhatsAppChannel{sender: sender}
}

func (c *WhatsAppChannel) Name() domain.Channel { return domain.ChannelWhatsApp }

func (c *WhatsAppChannel) Address(r domain.Recipient) string { return r.Phone }

func (c *WhatsAppChannel) Deliver(ctx context.Context, address string, msg Message) error {
	_, err := c.sender.SendText(ctx, address, msg.Body)
	switch {
	case errors.Is(err, whatsapp.ErrInvalidPhone),
		errors.Is(err, whatsapp.ErrRejected),
		errors.Is(err, whatsapp.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	return err
}
