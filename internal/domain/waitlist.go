package domain

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// WaitlistStatus статус записи в листе ожидания
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistNotified  WaitlistStatus = "notified"
	WaitlistConverted WaitlistStatus = "converted"
	WaitlistExpired   WaitlistStatus = "expired"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

// IsValid проверяет, что статус известен
func (s WaitlistStatus) IsValid() bool {
	switch s {
	case WaitlistWaiting, WaitlistNotified, WaitlistConverted, WaitlistExpired, WaitlistCancelled:
		return true
	}
	return false
}

// WaitlistEntry клиент, ожидающий освобождения времени
type WaitlistEntry struct {
	ID            int64
	ClientID      int64
	ServiceID     int64
	Date          types.Date
	PreferredTime *types.TimeString
	Status        WaitlistStatus
	NotifiedAt    *time.Time
	ExpiresAt     *time.Time
	// Освободившееся время, предложенное клиенту при уведомлении
	OfferedTime *types.TimeString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive запись еще участвует в очереди
func (w *WaitlistEntry) IsActive() bool {
	return w.Status == WaitlistWaiting || w.Status == WaitlistNotified
}

// Matches подходит ли запись под освободившееся время
// Желаемое время, если указано, должно совпадать с началом освободившегося слота
func (w *WaitlistEntry) Matches(serviceID int64, freed types.TimeString) bool {
	if w.ServiceID != serviceID {
		return false
	}
	return w.PreferredTime == nil || w.PreferredTime.Equal(freed)
}

// WaitlistFilter фильтр для администратора
type WaitlistFilter struct {
	Date      *types.Date
	Status    *WaitlistStatus
	ServiceID *int64
}
