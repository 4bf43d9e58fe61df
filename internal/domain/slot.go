package domain

import (
	"errors"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

var (
	ErrOutsideHours = errors.New("slot is outside business hours")
	ErrSlotBlocked  = errors.New("slot is blocked")
	ErrNoCapacity   = errors.New("slot has no free spots")
)

// AvailableSlot свободный интервал для записи
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	AvailableSpots  int
	TotalSpots      int
}

// IsFull в слоте не осталось мест
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// OccupancyRate заполненность слота в процентах (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}

// Overlaps проверяет пересечение интервалов [aStart, aEnd) и [bStart, bEnd)
// Неравенства строгие: интервалы, касающиеся границами, не пересекаются
//
// 11:30-12:00 и 11:20-11:40 → пересекаются
// 11:30-12:00 и 11:00-11:30 → нет
// 11:30-12:00 и 12:00-12:30 → нет
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.Minutes() < bEnd.Minutes() && bStart.Minutes() < aEnd.Minutes()
}

// SlotStarts генерирует начала слотов от открытия с шагом step
// Слот сохраняется, только если услуга длительностью duration успевает закончиться до закрытия
func SlotStarts(hours BusinessHours, step, duration int) []types.TimeString {
	starts := make([]types.TimeString, 0)
	if !hours.IsOpen || step <= 0 || duration <= 0 {
		return starts
	}

	open := hours.OpenTime.Minutes()
	closing := hours.CloseTime.Minutes()
	if open < 0 || closing < 0 {
		return starts
	}

	for m := open; m+duration <= closing; m += step {
		ts, err := types.FromMinutes(m)
		if err != nil {
			break
		}
		starts = append(starts, ts)
	}
	return starts
}

// WithinHours проверяет, что интервал целиком попадает в часы работы
func WithinHours(hours BusinessHours, start types.TimeString, duration int) bool {
	if !hours.IsOpen {
		return false
	}
	s := start.Minutes()
	if s < 0 {
		return false
	}
	return s >= hours.OpenTime.Minutes() && s+duration <= hours.CloseTime.Minutes()
}

// CountOverlapping считает активные записи, пересекающиеся с интервалом
// Если выбран мастер, учитываются только его записи
func CountOverlapping(start types.TimeString, duration int, appointments []*Appointment, professionalID *int64) int {
	end, err := start.AddMinutes(duration)
	if err != nil {
		return 0
	}

	count := 0
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		if professionalID != nil && (a.ProfessionalID == nil || *a.ProfessionalID != *professionalID) {
			continue
		}
		aEnd, err := a.EndTime()
		if err != nil {
			continue
		}
		if Overlaps(start, end, a.StartTime, aEnd) {
			count++
		}
	}
	return count
}

// FindBlockingTimeBlock возвращает первую блокировку, перекрывающую интервал
// Блокировка салона применяется всегда, блокировка мастера - только при записи к нему
func FindBlockingTimeBlock(start types.TimeString, duration int, blocks []*TimeBlock, professionalID *int64) *TimeBlock {
	end, err := start.AddMinutes(duration)
	if err != nil {
		return nil
	}

	for _, b := range blocks {
		if !b.AppliesTo(professionalID) {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return b
		}
	}
	return nil
}

// Capacity вместимость слота: к выбранному мастеру записывается один клиент
func Capacity(cfg *SchedulingConfig, professionalID *int64) int {
	if professionalID != nil {
		return 1
	}
	return cfg.MaxConcurrentBookings
}

// AvailableSpots сколько мест осталось, но не меньше нуля
func AvailableSpots(capacity, overlapping int) int {
	if left := capacity - overlapping; left > 0 {
		return left
	}
	return 0
}

// IsAligned начало совпадает с сеткой слотов: open + k*step
func IsAligned(hours BusinessHours, start types.TimeString, step int) bool {
	if step <= 0 {
		return false
	}
	offset := start.Minutes() - hours.OpenTime.Minutes()
	return offset >= 0 && offset%step == 0
}

// CheckSlot проверяет, можно ли записаться на интервал [start, start+duration)
// Порядок проверок: часы работы и сетка, блокировки, вместимость
func CheckSlot(
	hours BusinessHours,
	cfg *SchedulingConfig,
	start types.TimeString,
	duration int,
	blocks []*TimeBlock,
	appointments []*Appointment,
	professionalID *int64,
) error {
	if !WithinHours(hours, start, duration) || !IsAligned(hours, start, cfg.SlotDurationMinutes) {
		return ErrOutsideHours
	}
	if FindBlockingTimeBlock(start, duration, blocks, professionalID) != nil {
		return ErrSlotBlocked
	}
	if CountOverlapping(start, duration, appointments, professionalID) >= Capacity(cfg, professionalID) {
		return ErrNoCapacity
	}
	return nil
}
