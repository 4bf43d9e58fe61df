package generate_recurring

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockRecurring struct{ mock.Mock }

func (m *mockRecurring) ListActive(ctx context.Context) ([]*domain.RecurringAppointment, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]*domain.RecurringAppointment)
	return r, args.Error(1)
}

func (m *mockRecurring) SetLastGenerated(ctx context.Context, id int64, date types.Date) error {
	return m.Called(ctx, id, date).Error(0)
}

type mockServices struct{ mock.Mock }

func (m *mockServices) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
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

func (m *mockAppointments) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, a)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	out := *a
	out.ID = a.Date.Unix()
	return &out, nil
}

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

type recordingCache struct{ invalidated []types.Date }

func (c *recordingCache) InvalidateDate(_ context.Context, date types.Date) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func day(y int, m time.Month, d int) types.Date {
	return types.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Пятница 2026-10-30
var now = time.Date(2026, 10, 30, 9, 0, 0, 0, time.UTC)

type fixture struct {
	recurring    *mockRecurring
	services     *mockServices
	settings     *mockSettings
	appointments *mockAppointments
	blocks       *mockTimeBlocks
	cache        *recordingCache
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		recurring:    &mockRecurring{},
		services:     &mockServices{},
		settings:     &mockSettings{},
		appointments: &mockAppointments{},
		blocks:       &mockTimeBlocks{},
		cache:        &recordingCache{},
	}
	f.uc = NewUseCase(f.recurring, f.services, f.settings, f.appointments, f.blocks, f.cache, passThroughTx{}, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})

	f.settings.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).
		Return(&domain.SchedulingConfig{SlotDurationMinutes: 60, MaxConcurrentBookings: 1}, nil)
	f.settings.On("ListBusinessHours", mock.Anything).Return([]*domain.BusinessHours{
		{Weekday: time.Monday, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
	}, nil)
	return f
}

func weekly(id int64, start types.Date) *domain.RecurringAppointment {
	return &domain.RecurringAppointment{
		ID: id, ClientID: 7, ServiceID: 1, Frequency: domain.FrequencyWeekly,
		StartDate: start, StartTime: "10:00", Active: true,
	}
}

func TestExecute_GeneratesAndReportsSkipped(t *testing.T) {
	f := newFixture()
	f.recurring.On("ListActive", mock.Anything).Return([]*domain.RecurringAppointment{weekly(1, day(2026, 11, 2))}, nil)
	f.services.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Service{ID: 1, Name: "Gel", DurationMinutes: 60, Price: 1500, Active: true}, nil)

	f.blocks.On("GetByDate", mock.Anything, day(2026, 11, 9)).
		Return([]*domain.TimeBlock{{StartTime: "09:00", EndTime: "18:00"}}, nil)
	f.blocks.On("GetByDate", mock.Anything, mock.Anything).Return(nil, nil)
	f.appointments.On("GetActiveByDate", mock.Anything, day(2026, 11, 16)).Return([]*domain.Appointment{
		{StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusPending},
	}, nil)
	f.appointments.On("GetActiveByDate", mock.Anything, mock.Anything).Return(nil, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything).Return(nil, nil)
	f.recurring.On("SetLastGenerated", mock.Anything, int64(1), day(2026, 11, 16)).Return(nil)

	result, err := f.uc.Execute(context.Background(), 21)
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	created := result.Created[0]
	assert.Equal(t, day(2026, 11, 2), created.Date)
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	assert.Equal(t, int64(1), *created.RecurringID)
	assert.Equal(t, 1500.0, created.FinalPrice)

	want := []domain.SkippedOccurrence{
		{RecurringID: 1, Date: day(2026, 11, 9), Reason: domain.SkipReasonBlocked},
		{RecurringID: 1, Date: day(2026, 11, 16), Reason: domain.SkipReasonNoCapacity},
	}
	if diff := cmp.Diff(want, result.Skipped); diff != "" {
		t.Errorf("skipped occurrences mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []types.Date{day(2026, 11, 2)}, f.cache.invalidated)
	f.recurring.AssertExpectations(t)
}

func TestExecute_IsIdempotent(t *testing.T) {
	f := newFixture()
	tmpl := weekly(1, day(2026, 11, 2))
	last := day(2026, 11, 16)
	tmpl.LastGeneratedDate = &last
	f.recurring.On("ListActive", mock.Anything).Return([]*domain.RecurringAppointment{tmpl}, nil)

	result, err := f.uc.Execute(context.Background(), 21)
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	assert.Empty(t, result.Skipped)
	f.recurring.AssertNotCalled(t, "SetLastGenerated", mock.Anything, mock.Anything, mock.Anything)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_ClosedDayAndInactiveService(t *testing.T) {
	f := newFixture()
	sunday := weekly(1, day(2026, 11, 1))
	other := weekly(2, day(2026, 11, 2))
	other.ServiceID = 2
	f.recurring.On("ListActive", mock.Anything).Return([]*domain.RecurringAppointment{sunday, other}, nil)
	f.services.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Service{ID: 1, DurationMinutes: 60, Active: true}, nil)
	f.services.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.Service{ID: 2, DurationMinutes: 60, Active: false}, nil)
	f.recurring.On("SetLastGenerated", mock.Anything, int64(1), day(2026, 11, 8)).Return(nil)
	f.recurring.On("SetLastGenerated", mock.Anything, int64(2), day(2026, 11, 9)).Return(nil)

	result, err := f.uc.Execute(context.Background(), 10)
	require.NoError(t, err)

	want := []domain.SkippedOccurrence{
		{RecurringID: 1, Date: day(2026, 11, 1), Reason: domain.SkipReasonClosed},
		{RecurringID: 1, Date: day(2026, 11, 8), Reason: domain.SkipReasonClosed},
		{RecurringID: 2, Date: day(2026, 11, 2), Reason: domain.SkipReasonInactive},
		{RecurringID: 2, Date: day(2026, 11, 9), Reason: domain.SkipReasonInactive},
	}
	if diff := cmp.Diff(want, result.Skipped); diff != "" {
		t.Errorf("skipped occurrences mismatch (-want +got):\n%s", diff)
	}
	f.recurring.AssertExpectations(t)
}

func TestExecute_DuplicateOccurrenceIsNotAnError(t *testing.T) {
	f := newFixture()
	f.recurring.On("ListActive", mock.Anything).Return([]*domain.RecurringAppointment{weekly(1, day(2026, 11, 2))}, nil)
	f.services.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Service{ID: 1, DurationMinutes: 60, Active: true}, nil)
	f.blocks.On("GetByDate", mock.Anything, mock.Anything).Return(nil, nil)
	f.appointments.On("GetActiveByDate", mock.Anything, mock.Anything).Return(nil, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything).Return(nil, appointmentRepo.ErrDuplicateOccurrence)
	f.recurring.On("SetLastGenerated", mock.Anything, int64(1), day(2026, 11, 2)).Return(nil)

	result, err := f.uc.Execute(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Skipped)
}

func TestExecute_RejectsNonPositiveHorizon(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
