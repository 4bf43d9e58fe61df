package domain

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// Frequency периодичность повторяющейся записи
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// IsValid проверяет, что периодичность известна
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurringAppointment шаблон, периодически порождающий записи
type RecurringAppointment struct {
	ID                int64
	ClientID          int64
	ServiceID         int64
	ProfessionalID    *int64
	Frequency         Frequency
	StartDate         types.Date
	EndDate           *types.Date
	StartTime         types.TimeString
	Active            bool
	LastGeneratedDate *types.Date
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Occurrences даты вхождений шаблона в (LastGeneratedDate, until]
// Первое вхождение - StartDate; monthly переносит день на последний день месяца, если его нет
func (r *RecurringAppointment) Occurrences(until types.Date) []types.Date {
	result := make([]types.Date, 0)
	if r.EndDate != nil && r.EndDate.Before(until) {
		until = *r.EndDate
	}

	for i := 0; ; i++ {
		d := r.nth(i)
		if d.After(until) {
			break
		}
		if r.LastGeneratedDate != nil && !d.After(*r.LastGeneratedDate) {
			continue
		}
		result = append(result, d)
	}
	return result
}

// nth i-е вхождение начиная с StartDate
// Месяцы считаются от StartDate, а не от предыдущего вхождения, чтобы 31-е не сползало на 28-е навсегда
func (r *RecurringAppointment) nth(i int) types.Date {
	switch r.Frequency {
	case FrequencyBiweekly:
		return r.StartDate.AddDays(14 * i)
	case FrequencyMonthly:
		return AddMonthsClamped(r.StartDate, i)
	default:
		return r.StartDate.AddDays(7 * i)
	}
}

// AddMonthsClamped прибавляет n месяцев, ограничивая день последним днем месяца
func AddMonthsClamped(d types.Date, n int) types.Date {
	y, m, day := d.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return types.NewDate(time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC))
}

// SkippedOccurrence вхождение, которое не удалось превратить в запись
type SkippedOccurrence struct {
	RecurringID int64
	Date        types.Date
	Reason      string
}

// Причины пропуска вхождения
const (
	SkipReasonClosed       = "closed"
	SkipReasonOutsideHours = "outside_hours"
	SkipReasonBlocked      = "blocked"
	SkipReasonNoCapacity   = "no_capacity"
	SkipReasonInactive     = "service_inactive"
)
