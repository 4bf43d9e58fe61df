package get_available_slots

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockServices struct{ mock.Mock }

func (m *mockServices) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

type mockProfessionals struct{ mock.Mock }

func (m *mockProfessionals) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Professional)
	return p, args.Error(1)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error) {
	args := m.Called(ctx, serviceID)
	c, _ := args.Get(0).(*domain.SchedulingConfig)
	return c, args.Error(1)
}

func (m *mockSettings) ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).([]*domain.BusinessHours)
	return h, args.Error(1)
}

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error) {
	args := m.Called(ctx, date)
	a, _ := args.Get(0).([]*domain.Appointment)
	return a, args.Error(1)
}

type mockTimeBlocks struct{ mock.Mock }

func (m *mockTimeBlocks) GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeBlock, error) {
	args := m.Called(ctx, date)
	b, _ := args.Get(0).([]*domain.TimeBlock)
	return b, args.Error(1)
}

type memCache struct {
	data map[string][]domain.AvailableSlot
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]domain.AvailableSlot)}
}

func cacheKey(serviceID int64, date types.Date, professionalID *int64) string {
	return fmt.Sprintf("%s/%d/%d", date, serviceID, ptr.Deref(professionalID, 0))
}

func (c *memCache) Get(_ context.Context, serviceID int64, date types.Date, professionalID *int64) ([]domain.AvailableSlot, bool, error) {
	s, ok := c.data[cacheKey(serviceID, date, professionalID)]
	return s, ok, nil
}

func (c *memCache) Set(_ context.Context, serviceID int64, date types.Date, professionalID *int64, slots []domain.AvailableSlot) error {
	c.sets++
	c.data[cacheKey(serviceID, date, professionalID)] = slots
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	services      *mockServices
	professionals *mockProfessionals
	settings      *mockSettings
	appointments  *mockAppointments
	blocks        *mockTimeBlocks
	cache         *memCache
	uc            *UseCase
}

// 2026-11-02 - понедельник
var monday = types.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))

func newFixture(now time.Time) *fixture {
	f := &fixture{
		services:      &mockServices{},
		professionals: &mockProfessionals{},
		settings:      &mockSettings{},
		appointments:  &mockAppointments{},
		blocks:        &mockTimeBlocks{},
		cache:         newMemCache(),
	}
	f.uc = NewUseCase(f.services, f.professionals, f.settings, f.appointments, f.blocks, f.cache, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func (f *fixture) withDefaults() {
	f.services.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Service{ID: 1, Name: "Gel", DurationMinutes: 60, Active: true}, nil)
	f.settings.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).
		Return(&domain.SchedulingConfig{SlotDurationMinutes: 60, MaxConcurrentBookings: 2, AdvanceBookingDays: 30, MinBookingNoticeMinutes: 60}, nil)
	f.settings.On("ListBusinessHours", mock.Anything).Return([]*domain.BusinessHours{
		{Weekday: time.Monday, IsOpen: true, OpenTime: "09:00", CloseTime: "13:00"},
	}, nil)
}

func starts(slots []domain.AvailableSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestExecute_ComputesSlots(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC))
	f.withDefaults()
	f.blocks.On("GetByDate", mock.Anything, monday).Return([]*domain.TimeBlock{
		{StartTime: "11:00", EndTime: "11:30"},
	}, nil)
	f.appointments.On("GetActiveByDate", mock.Anything, monday).Return([]*domain.Appointment{
		{StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{StartTime: "09:30", DurationMinutes: 60, Status: domain.StatusPending},
	}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "12:00"}, starts(resp.Slots))
	assert.Equal(t, 0, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 1, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[2].AvailableSpots)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[2].EndTime)
	assert.Equal(t, 1, f.cache.sets)

	// Повторный запрос берется из кэша
	_, err = f.uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)
	f.appointments.AssertNumberOfCalls(t, "GetActiveByDate", 1)
}

func TestExecute_TodayAppliesNoticeAfterCache(t *testing.T) {
	f := newFixture(time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC))
	f.withDefaults()
	f.blocks.On("GetByDate", mock.Anything, monday).Return([]*domain.TimeBlock{}, nil)
	f.appointments.On("GetActiveByDate", mock.Anything, monday).Return([]*domain.Appointment{}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)

	// 09:30 + 60 минут: 09:00 и 10:00 уже недоступны
	assert.Equal(t, []string{"11:00", "12:00"}, starts(resp.Slots))
	// В кэше лежат все слоты дня
	cached, ok, _ := f.cache.Get(context.Background(), 1, monday, nil)
	require.True(t, ok)
	assert.Len(t, cached, 4)
}

func TestExecute_ProfessionalCapacityIsOne(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC))
	f.withDefaults()
	f.professionals.On("GetByID", mock.Anything, int64(7)).Return(&domain.Professional{ID: 7, Active: true}, nil)
	f.blocks.On("GetByDate", mock.Anything, monday).Return([]*domain.TimeBlock{
		{StartTime: "12:00", EndTime: "13:00", ProfessionalID: ptr.Ptr(int64(7))},
	}, nil)
	f.appointments.On("GetActiveByDate", mock.Anything, monday).Return([]*domain.Appointment{
		{StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed, ProfessionalID: ptr.Ptr(int64(7))},
		{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed, ProfessionalID: ptr.Ptr(int64(8))},
	}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday, ProfessionalID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	require.Equal(t, []string{"09:00", "10:00", "11:00"}, starts(resp.Slots))
	assert.Equal(t, 0, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 1, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 1, resp.Slots[1].TotalSpots)
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC))
	f.withDefaults()

	tuesday := monday.AddDays(1)
	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: 1, Date: tuesday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	f.blocks.AssertNotCalled(t, "GetByDate", mock.Anything, mock.Anything)
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC)

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.uc.Execute(context.Background(), &Request{ServiceID: 0, Date: monday})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("service not found", func(t *testing.T) {
		f := newFixture(now)
		f.services.On("GetByID", mock.Anything, int64(2)).Return(nil, catalogRepo.ErrServiceNotFound)
		_, err := f.uc.Execute(context.Background(), &Request{ServiceID: 2, Date: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive service", func(t *testing.T) {
		f := newFixture(now)
		f.services.On("GetByID", mock.Anything, int64(3)).Return(&domain.Service{ID: 3, Active: false}, nil)
		_, err := f.uc.Execute(context.Background(), &Request{ServiceID: 3, Date: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("date in past", func(t *testing.T) {
		f := newFixture(now)
		f.withDefaults()
		_, err := f.uc.Execute(context.Background(), &Request{ServiceID: 1, Date: types.Today(now).AddDays(-1)})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("too far ahead with default config", func(t *testing.T) {
		f := newFixture(now)
		f.services.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Service{ID: 1, DurationMinutes: 60, Active: true}, nil)
		f.settings.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).Return(nil, settingsRepo.ErrConfigNotFound)
		_, err := f.uc.Execute(context.Background(), &Request{
			ServiceID: 1,
			Date:      types.Today(now).AddDays(domain.DefaultAdvanceBookingDays + 1),
		})
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})
}
