package notify

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

// Форматы даты и времени в текстах уведомлений
const (
	messageDateFormat = "02.01.2006"
	messageTimeFormat = "15:04 02.01.2006"
)

// Sink очередь уведомлений (реализуется Dispatcher)
type Sink interface {
	Notify(n domain.Notification) error
}

// UserSource получатели уведомлений
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]*domain.User, error)
}

// Publisher собирает уведомления о записях и листе ожидания и ставит их в очередь
// Ошибки только логируются: уведомление не должно ломать основную операцию
type Publisher struct {
	sink   Sink
	users  UserSource
	salon  string
	logger Logger
}

// NewPublisher создает Publisher
func NewPublisher(sink Sink, users UserSource, salonName string, logger Logger) *Publisher {
	return &Publisher{sink: sink, users: users, salon: salonName, logger: logger}
}

// AppointmentEvent уведомляет клиента о событии записи
// О новых и отмененных записях дополнительно уведомляются администраторы
func (p *Publisher) AppointmentEvent(ctx context.Context, event domain.NotificationEvent, a *domain.Appointment, reason *string) {
	client, err := p.users.GetByID(ctx, a.ClientID)
	if err != nil {
		p.logger.Error("Publisher: failed to load client id=%d for %s: %v", a.ClientID, event, err)
		return
	}

	data := map[string]string{
		"salon":   p.salon,
		"service": a.ServiceName,
		"date":    a.Date.Format(messageDateFormat),
		"time":    a.StartTime.String(),
		"reason":  ptr.Deref(reason, ""),
	}
	p.enqueue(event, client, data)

	if event != domain.EventAppointmentCreated && event != domain.EventAppointmentCancelled {
		return
	}

	admins, err := p.users.ListAdmins(ctx)
	if err != nil {
		p.logger.Error("Publisher: failed to list admins for %s: %v", event, err)
		return
	}
	for _, admin := range admins {
		adminData := make(map[string]string, len(data)+1)
		for k, v := range data {
			adminData[k] = v
		}
		adminData["client"] = client.Name
		p.enqueue(event, admin, adminData)
	}
}

// WaitlistOffer предлагает клиенту из листа ожидания освободившееся время
func (p *Publisher) WaitlistOffer(ctx context.Context, e *domain.WaitlistEntry, serviceName string) {
	client, err := p.users.GetByID(ctx, e.ClientID)
	if err != nil {
		p.logger.Error("Publisher: failed to load client id=%d for waitlist entry id=%d: %v", e.ClientID, e.ID, err)
		return
	}

	data := map[string]string{
		"salon":   p.salon,
		"service": serviceName,
		"date":    e.Date.Format(messageDateFormat),
	}
	if e.OfferedTime != nil {
		data["time"] = e.OfferedTime.String()
	}
	if e.ExpiresAt != nil {
		data["expires"] = e.ExpiresAt.Local().Format(messageTimeFormat)
	}
	p.enqueue(domain.EventWaitlistSlot, client, data)
}

func (p *Publisher) enqueue(event domain.NotificationEvent, u *domain.User, data map[string]string) {
	n := domain.Notification{
		Event: event,
		Recipient: domain.Recipient{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Phone:  ptr.Deref(u.Phone, ""),
		},
		Data: data,
	}
	if err := p.sink.Notify(n); err != nil {
		p.logger.Warn("Publisher: notification not queued: event=%s, user_id=%d, error=%v", event, u.ID, err)
	}
}
