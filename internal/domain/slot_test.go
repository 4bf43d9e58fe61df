package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd types.TimeString
		want                       bool
	}{
		{name: "partial overlap", aStart: "11:30", aEnd: "12:00", bStart: "11:20", bEnd: "11:40", want: true},
		{name: "touching before", aStart: "11:30", aEnd: "12:00", bStart: "11:00", bEnd: "11:30", want: false},
		{name: "touching after", aStart: "11:30", aEnd: "12:00", bStart: "12:00", bEnd: "12:30", want: false},
		{name: "contained", aStart: "10:00", aEnd: "13:00", bStart: "11:00", bEnd: "11:30", want: true},
		{name: "identical", aStart: "10:00", aEnd: "10:30", bStart: "10:00", bEnd: "10:30", want: true},
		{name: "disjoint", aStart: "09:00", aEnd: "10:00", bStart: "15:00", bEnd: "16:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestOverlaps_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	toTS := func(m int) types.TimeString {
		ts, _ := types.FromMinutes(m)
		return ts
	}

	properties.Property("overlap is symmetric", prop.ForAll(
		func(a, aLen, b, bLen int) bool {
			as, ae := toTS(a), toTS(a+aLen)
			bs, be := toTS(b), toTS(b+bLen)
			return Overlaps(as, ae, bs, be) == Overlaps(bs, be, as, ae)
		},
		gen.IntRange(0, 1200), gen.IntRange(1, 200),
		gen.IntRange(0, 1200), gen.IntRange(1, 200),
	))

	properties.Property("adjacent intervals never overlap", prop.ForAll(
		func(a, aLen, bLen int) bool {
			as, ae := toTS(a), toTS(a+aLen)
			return !Overlaps(as, ae, ae, toTS(a+aLen+bLen))
		},
		gen.IntRange(0, 1000), gen.IntRange(1, 200), gen.IntRange(1, 200),
	))

	properties.Property("generated slots fit working hours", prop.ForAll(
		func(open, length, step, duration int) bool {
			hours := BusinessHours{IsOpen: true, OpenTime: toTS(open), CloseTime: toTS(open + length)}
			for _, s := range SlotStarts(hours, step, duration) {
				if !WithinHours(hours, s, duration) {
					return false
				}
				if (s.Minutes()-open)%step != 0 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 600), gen.IntRange(0, 720), gen.IntRange(5, 120), gen.IntRange(5, 240),
	))

	properties.TestingRun(t)
}

func TestSlotStarts(t *testing.T) {
	hours := BusinessHours{IsOpen: true, OpenTime: "09:00", CloseTime: "11:00"}

	assert.Equal(t,
		[]types.TimeString{"09:00", "09:30", "10:00"},
		SlotStarts(hours, 30, 60),
	)
	assert.Equal(t,
		[]types.TimeString{"09:00", "09:30", "10:00", "10:30"},
		SlotStarts(hours, 30, 30),
	)
	assert.Empty(t, SlotStarts(hours, 30, 180))
	assert.Empty(t, SlotStarts(BusinessHours{IsOpen: false}, 30, 30))
}

func TestCountOverlapping(t *testing.T) {
	appointments := []*Appointment{
		{StartTime: "10:00", DurationMinutes: 60, Status: StatusConfirmed, ProfessionalID: ptr.Ptr(int64(1))},
		{StartTime: "10:30", DurationMinutes: 30, Status: StatusPending},
		{StartTime: "10:00", DurationMinutes: 60, Status: StatusCancelled},
		{StartTime: "11:00", DurationMinutes: 30, Status: StatusConfirmed, ProfessionalID: ptr.Ptr(int64(2))},
	}

	assert.Equal(t, 2, CountOverlapping("10:30", 30, appointments, nil))
	assert.Equal(t, 1, CountOverlapping("10:30", 30, appointments, ptr.Ptr(int64(1))))
	assert.Equal(t, 0, CountOverlapping("11:00", 30, appointments, ptr.Ptr(int64(1))))
	assert.Equal(t, 1, CountOverlapping("11:00", 30, appointments, nil))
}

func TestFindBlockingTimeBlock(t *testing.T) {
	salon := &TimeBlock{ID: 1, StartTime: "13:00", EndTime: "14:00"}
	master := &TimeBlock{ID: 2, StartTime: "15:00", EndTime: "16:00", ProfessionalID: ptr.Ptr(int64(7))}
	blocks := []*TimeBlock{salon, master}

	assert.Equal(t, salon, FindBlockingTimeBlock("12:30", 60, blocks, nil))
	assert.Nil(t, FindBlockingTimeBlock("12:00", 60, blocks, nil))
	assert.Nil(t, FindBlockingTimeBlock("15:00", 30, blocks, nil))
	assert.Equal(t, master, FindBlockingTimeBlock("15:00", 30, blocks, ptr.Ptr(int64(7))))
	assert.Nil(t, FindBlockingTimeBlock("15:00", 30, blocks, ptr.Ptr(int64(8))))
}

func TestCapacityAndSpots(t *testing.T) {
	cfg := &SchedulingConfig{MaxConcurrentBookings: 3}
	assert.Equal(t, 3, Capacity(cfg, nil))
	assert.Equal(t, 1, Capacity(cfg, ptr.Ptr(int64(1))))
	assert.Equal(t, 1, AvailableSpots(3, 2))
	assert.Equal(t, 0, AvailableSpots(1, 4))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.False(t, CanTransition(StatusConfirmed, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusCompleted))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusPending))
}

func TestCheckSlot(t *testing.T) {
	hours := BusinessHours{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"}
	cfg := &SchedulingConfig{SlotDurationMinutes: 30, MaxConcurrentBookings: 2}
	blocks := []*TimeBlock{{StartTime: "13:00", EndTime: "14:00"}}
	appointments := []*Appointment{
		{StartTime: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
		{StartTime: "10:00", DurationMinutes: 60, Status: StatusPending, ProfessionalID: ptr.Ptr(int64(5))},
	}

	tests := []struct {
		name         string
		start        types.TimeString
		duration     int
		professional *int64
		want         error
	}{
		{name: "free", start: "11:00", duration: 60, want: nil},
		{name: "before open", start: "08:30", duration: 30, want: ErrOutsideHours},
		{name: "ends after close", start: "17:30", duration: 60, want: ErrOutsideHours},
		{name: "not on grid", start: "11:10", duration: 30, want: ErrOutsideHours},
		{name: "blocked", start: "12:30", duration: 60, want: ErrSlotBlocked},
		{name: "full", start: "10:30", duration: 30, want: ErrNoCapacity},
		{name: "professional busy", start: "10:30", duration: 30, professional: ptr.Ptr(int64(5)), want: ErrNoCapacity},
		{name: "other professional free", start: "10:30", duration: 30, professional: ptr.Ptr(int64(6)), want: nil},
		{name: "touching ends", start: "11:00", duration: 30, professional: ptr.Ptr(int64(5)), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSlot(hours, cfg, tt.start, tt.duration, blocks, appointments, tt.professional)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
