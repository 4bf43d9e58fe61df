package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// buildSlots рассчитывает слоты дня без учета текущего времени
// Слоты, пересекающиеся с блокировками, не попадают в результат
// Заполненные слоты остаются в списке с AvailableSpots = 0
func buildSlots(
	hours domain.BusinessHours,
	cfg *domain.SchedulingConfig,
	duration int,
	blocks []*domain.TimeBlock,
	appointments []*domain.Appointment,
	professionalID *int64,
) []domain.AvailableSlot {
	starts := domain.SlotStarts(hours, cfg.SlotDurationMinutes, duration)
	capacity := domain.Capacity(cfg, professionalID)

	slots := make([]domain.AvailableSlot, 0, len(starts))
	for _, start := range starts {
		if domain.FindBlockingTimeBlock(start, duration, blocks, professionalID) != nil {
			continue
		}

		end, err := start.AddMinutes(duration)
		if err != nil {
			continue
		}

		overlapping := domain.CountOverlapping(start, duration, appointments, professionalID)
		slots = append(slots, domain.AvailableSlot{
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: duration,
			AvailableSpots:  domain.AvailableSpots(capacity, overlapping),
			TotalSpots:      capacity,
		})
	}
	return slots
}

// filterByNotice убирает слоты, начинающиеся раньше now + minNoticeMinutes
// Для дат после сегодняшней список возвращается как есть
func filterByNotice(slots []domain.AvailableSlot, date types.Date, now time.Time, minNoticeMinutes int) []domain.AvailableSlot {
	if date.After(types.Today(now)) {
		return slots
	}

	earliest := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, s := range slots {
		if domain.WallClock(date, s.StartTime, now.Location()).Before(earliest) {
			continue
		}
		result = append(result, s)
	}
	return result
}
