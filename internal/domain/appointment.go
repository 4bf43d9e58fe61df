package domain

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// AppointmentStatus статус записи клиента
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment запись клиента на услугу
type Appointment struct {
	ID              int64
	ClientID        int64
	ServiceID       int64
	ProfessionalID  *int64
	Date            types.Date
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Денормализованные данные услуги на момент записи
	ServiceName string
	Price       float64
	Discount    float64
	FinalPrice  float64

	CouponID    *int64
	RecurringID *int64
	WaitlistID  *int64
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time
	ReminderSentAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive запись занимает время в расписании
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled отменить можно только ожидающую или подтвержденную запись
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// EndTime время окончания записи
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// StartsAt момент начала записи по настенным часам салона в loc
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return WallClock(a.Date, a.StartTime, loc)
}

// WallClock собирает момент времени из даты и времени суток в часовом поясе loc
func WallClock(date types.Date, at types.TimeString, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return at.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// CanTransition проверяет допустимость смены статуса администратором
// pending → confirmed; pending|confirmed → completed; pending|confirmed → cancelled
func CanTransition(from, to AppointmentStatus) bool {
	switch to {
	case StatusConfirmed:
		return from == StatusPending
	case StatusCompleted, StatusCancelled:
		return from == StatusPending || from == StatusConfirmed
	}
	return false
}

// AppointmentFilter фильтр списка записей для администратора
type AppointmentFilter struct {
	StartDate       *types.Date
	EndDate         *types.Date
	Status          *AppointmentStatus
	ProfessionalID  *int64
	ClientID        *int64
	ServiceID       *int64
	IncludeInactive bool // включать отмененные и завершенные
}
