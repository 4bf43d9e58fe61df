package domain

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// SchedulingConfig настройки расписания
// Иерархия: настройки конкретной услуги (service_id) перекрывают глобальные (service_id IS NULL)
type SchedulingConfig struct {
	ID                        int64
	ServiceID                 *int64 // NULL = глобальная конфигурация
	SlotDurationMinutes       int
	MaxConcurrentBookings     int
	AdvanceBookingDays        int // 0 = без ограничений
	MinBookingNoticeMinutes   int
	CancellationNoticeMinutes int
	WaitlistHoldMinutes       int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// DefaultSchedulingConfig конфигурация, используемая когда в БД ничего нет
func DefaultSchedulingConfig() *SchedulingConfig {
	return &SchedulingConfig{
		SlotDurationMinutes:       DefaultSlotDurationMinutes,
		MaxConcurrentBookings:     DefaultMaxConcurrentBookings,
		AdvanceBookingDays:        DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes:   DefaultMinBookingNoticeMinutes,
		CancellationNoticeMinutes: DefaultCancellationNoticeMinutes,
		WaitlistHoldMinutes:       DefaultWaitlistHoldMinutes,
	}
}

// IsGlobalConfig true для конфигурации всего салона
func (c *SchedulingConfig) IsGlobalConfig() bool {
	return c.ServiceID == nil
}

// HasAdvanceBookingLimit есть ли ограничение на запись заранее
func (c *SchedulingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// BusinessHours часы работы салона в день недели
type BusinessHours struct {
	Weekday   time.Weekday
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
	UpdatedAt time.Time
}

// DefaultBusinessHours пн-сб 09:00-19:00, воскресенье выходной
func DefaultBusinessHours() []*BusinessHours {
	week := make([]*BusinessHours, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		bh := &BusinessHours{Weekday: d, IsOpen: d != time.Sunday}
		if bh.IsOpen {
			bh.OpenTime = "09:00"
			bh.CloseTime = "19:00"
		}
		week = append(week, bh)
	}
	return week
}

// HoursFor возвращает расписание на день недели даты; отсутствующий день считается выходным
func HoursFor(week []*BusinessHours, date types.Date) BusinessHours {
	for _, bh := range week {
		if bh.Weekday == date.Weekday() {
			return *bh
		}
	}
	return BusinessHours{Weekday: date.Weekday()}
}
