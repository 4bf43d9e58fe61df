package domain

import (
	"encoding/json"
	"time"
)

// NotificationEvent тип события, о котором уведомляется пользователь
type NotificationEvent string

const (
	EventAppointmentCreated   NotificationEvent = "appointment_created"
	EventAppointmentConfirmed NotificationEvent = "appointment_confirmed"
	EventAppointmentCancelled NotificationEvent = "appointment_cancelled"
	EventWaitlistSlot         NotificationEvent = "waitlist_slot_available"
	EventAppointmentReminder  NotificationEvent = "appointment_reminder"
)

// Channel канал доставки
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Статусы попыток доставки
const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// Recipient получатель уведомления
type Recipient struct {
	UserID int64
	Name   string
	Email  string
	Phone  string
}

// Notification уведомление, поставленное в очередь на отправку
type Notification struct {
	Event     NotificationEvent
	Recipient Recipient
	Data      map[string]string
}

// NotificationLog результат одной попытки доставки
type NotificationLog struct {
	ID        int64
	UserID    int64
	Event     NotificationEvent
	Channel   Channel
	Recipient string
	Status    string
	Attempt   int
	Error     *string
	CreatedAt time.Time
}

// AuditEntry запись журнала действий администраторов
type AuditEntry struct {
	ID        int64
	ActorID   int64
	Action    string
	Entity    string
	EntityID  *int64
	Details   json.RawMessage
	CreatedAt time.Time
}

// Действия журнала аудита
const (
	AuditCreate       = "create"
	AuditUpdate       = "update"
	AuditDelete       = "delete"
	AuditStatusChange = "status_change"
)

// AuditFilter фильтр журнала аудита с постраничной выдачей
type AuditFilter struct {
	Entity  *string
	ActorID *int64
	Limit   uint64
	Offset  uint64
}

// NotificationLogFilter фильтр журнала уведомлений
type NotificationLogFilter struct {
	UserID *int64
	Status *string
	Limit  uint64
}
