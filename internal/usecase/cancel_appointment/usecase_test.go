package cancel_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointments) Cancel(ctx context.Context, id int64, reason *string, at time.Time) error {
	return m.Called(ctx, id, reason, at).Error(0)
}

type mockCoupons struct{ mock.Mock }

func (m *mockCoupons) ReleaseUsage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error) {
	args := m.Called(ctx, serviceID)
	c, _ := args.Get(0).(*domain.SchedulingConfig)
	return c, args.Error(1)
}

type mockPromoter struct{ mock.Mock }

func (m *mockPromoter) Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, serviceID, date, freed)
	e, _ := args.Get(0).(*domain.WaitlistEntry)
	return e, args.Error(1)
}

type recordingCache struct{ invalidated []types.Date }

func (c *recordingCache) InvalidateDate(_ context.Context, date types.Date) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}

type recordingNotifier struct {
	events  []domain.NotificationEvent
	reasons []*string
}

func (n *recordingNotifier) AppointmentEvent(_ context.Context, event domain.NotificationEvent, _ *domain.Appointment, reason *string) {
	n.events = append(n.events, event)
	n.reasons = append(n.reasons, reason)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var date = types.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))

type fixture struct {
	appointments *mockAppointments
	coupons      *mockCoupons
	settings     *mockSettings
	promoter     *mockPromoter
	cache        *recordingCache
	notifier     *recordingNotifier
	uc           *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		appointments: &mockAppointments{},
		coupons:      &mockCoupons{},
		settings:     &mockSettings{},
		promoter:     &mockPromoter{},
		cache:        &recordingCache{},
		notifier:     &recordingNotifier{},
	}
	f.uc = NewUseCase(f.appointments, f.coupons, f.settings, f.cache, f.notifier, f.promoter, passThroughTx{}, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	f.settings.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).
		Return(&domain.SchedulingConfig{CancellationNoticeMinutes: 120}, nil)
	return f
}

func appointment() *domain.Appointment {
	return &domain.Appointment{
		ID: 5, ClientID: 7, ServiceID: 1, Date: date, StartTime: "14:00",
		DurationMinutes: 60, Status: domain.StatusConfirmed,
	}
}

func TestExecute_OwnerCancels(t *testing.T) {
	now := time.Date(2026, 11, 2, 11, 0, 0, 0, time.UTC)
	f := newFixture(now)

	a := appointment()
	a.CouponID = ptr.Ptr(int64(3))
	reason := "заболела"
	f.appointments.On("GetByID", mock.Anything, int64(5)).Return(a, nil)
	f.appointments.On("Cancel", mock.Anything, int64(5), mock.Anything, now).Return(nil)
	f.coupons.On("ReleaseUsage", mock.Anything, int64(3)).Return(nil)
	f.promoter.On("Execute", mock.Anything, int64(1), date, types.TimeString("14:00")).Return(nil, nil)

	got, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 7, Reason: &reason})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, &now, got.CancelledAt)
	assert.Equal(t, []types.Date{date}, f.cache.invalidated)
	assert.Equal(t, []domain.NotificationEvent{domain.EventAppointmentCancelled}, f.notifier.events)
	require.NotNil(t, f.notifier.reasons[0])
	assert.Equal(t, "заболела", *f.notifier.reasons[0])
	f.coupons.AssertExpectations(t)
	f.promoter.AssertExpectations(t)
}

func TestExecute_NoticeWindow(t *testing.T) {
	// До начала 14:00 осталось 90 минут при требовании 120
	now := time.Date(2026, 11, 2, 12, 30, 0, 0, time.UTC)

	t.Run("client is too late", func(t *testing.T) {
		f := newFixture(now)
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(appointment(), nil)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 7})
		assert.ErrorIs(t, err, ErrTooLateToCancel)
		f.appointments.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin may cancel any time", func(t *testing.T) {
		f := newFixture(now)
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(appointment(), nil)
		f.appointments.On("Cancel", mock.Anything, int64(5), mock.Anything, now).Return(nil)
		f.promoter.On("Execute", mock.Anything, int64(1), date, types.TimeString("14:00")).Return(nil, nil)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 1, ByAdmin: true})
		require.NoError(t, err)
		f.settings.AssertNotCalled(t, "GetConfigWithHierarchy", mock.Anything, mock.Anything)
	})

	t.Run("exactly at the deadline", func(t *testing.T) {
		f := newFixture(time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC))
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(appointment(), nil)
		f.appointments.On("Cancel", mock.Anything, int64(5), mock.Anything, mock.Anything).Return(nil)
		f.promoter.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 7})
		require.NoError(t, err)
	})
}

func TestExecute_Rejections(t *testing.T) {
	now := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		f := newFixture(now)
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(nil, appointmentRepo.ErrAppointmentNotFound)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 7})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("someone else's appointment", func(t *testing.T) {
		f := newFixture(now)
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(appointment(), nil)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 8})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("already completed", func(t *testing.T) {
		f := newFixture(now)
		a := appointment()
		a.Status = domain.StatusCompleted
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(a, nil)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 1, ByAdmin: true})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("cancelled concurrently", func(t *testing.T) {
		f := newFixture(now)
		f.appointments.On("GetByID", mock.Anything, int64(5)).Return(appointment(), nil)
		f.appointments.On("Cancel", mock.Anything, int64(5), mock.Anything, now).Return(appointmentRepo.ErrCannotCancel)

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 7})
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, f.notifier.events)
	})
}

func TestExecute_PromotionFailureDoesNotFailCancel(t *testing.T) {
	now := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.appointments.On("GetByID", mock.Anything, int64(5)).Return(appointment(), nil)
	f.appointments.On("Cancel", mock.Anything, int64(5), mock.Anything, now).Return(nil)
	f.promoter.On("Execute", mock.Anything, int64(1), date, types.TimeString("14:00")).Return(nil, errors.New("db down"))

	got, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}
