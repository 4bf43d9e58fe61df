package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	couponRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/coupon"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	userRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/user"
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

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
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

func (m *mockAppointments) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, a)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Appointment) *domain.Appointment); ok {
		return fn(ctx, a), args.Error(1)
	}
	out, _ := args.Get(0).(*domain.Appointment)
	return out, args.Error(1)
}

func (m *mockAppointments) GetWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	a, _ := args.Get(0).([]*domain.Appointment)
	return a, args.Error(1)
}

type mockTimeBlocks struct{ mock.Mock }

func (m *mockTimeBlocks) GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeBlock, error) {
	args := m.Called(ctx, date)
	b, _ := args.Get(0).([]*domain.TimeBlock)
	return b, args.Error(1)
}

type mockCoupons struct{ mock.Mock }

func (m *mockCoupons) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockCoupons) IncrementUsage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockWaitlist struct{ mock.Mock }

func (m *mockWaitlist) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.WaitlistEntry)
	return e, args.Error(1)
}

func (m *mockWaitlist) UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

type recordingCache struct{ invalidated []types.Date }

func (c *recordingCache) InvalidateDate(_ context.Context, date types.Date) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}

type recordingNotifier struct{ events []domain.NotificationEvent }

func (n *recordingNotifier) AppointmentEvent(_ context.Context, event domain.NotificationEvent, _ *domain.Appointment, _ *string) {
	n.events = append(n.events, event)
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// 2026-11-02 - понедельник
var monday = types.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))

// Пятница перед monday, 12:00 UTC
var now = time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC)

type fixture struct {
	services      *mockServices
	users         *mockUsers
	professionals *mockProfessionals
	settings      *mockSettings
	appointments  *mockAppointments
	blocks        *mockTimeBlocks
	coupons       *mockCoupons
	waitlist      *mockWaitlist
	cache         *recordingCache
	notifier      *recordingNotifier
	uc            *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		services:      &mockServices{},
		users:         &mockUsers{},
		professionals: &mockProfessionals{},
		settings:      &mockSettings{},
		appointments:  &mockAppointments{},
		blocks:        &mockTimeBlocks{},
		coupons:       &mockCoupons{},
		waitlist:      &mockWaitlist{},
		cache:         &recordingCache{},
		notifier:      &recordingNotifier{},
	}
	f.uc = NewUseCase(Deps{
		Services:      f.services,
		Users:         f.users,
		Professionals: f.professionals,
		Settings:      f.settings,
		Appointments:  f.appointments,
		TimeBlocks:    f.blocks,
		Coupons:       f.coupons,
		Waitlist:      f.waitlist,
		Cache:         f.cache,
		Notifier:      f.notifier,
		TxManager:     passThroughTx{},
		Logger:        logger.NewNop(),
	}).WithTimeProvider(fixedTime{now: now})
	return f
}

// withSchedule стандартная конфигурация: понедельник 09:00-13:00, шаг 60, вместимость 1
func (f *fixture) withSchedule(existing []*domain.Appointment, blocks []*domain.TimeBlock) {
	f.services.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Service{ID: 1, Name: "Gel", DurationMinutes: 60, Price: 2000, Active: true}, nil)
	f.users.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Name: "Anna", Role: domain.RoleClient, Active: true}, nil)
	f.settings.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).
		Return(&domain.SchedulingConfig{SlotDurationMinutes: 60, MaxConcurrentBookings: 1, AdvanceBookingDays: 30, MinBookingNoticeMinutes: 60}, nil)
	f.settings.On("ListBusinessHours", mock.Anything).Return([]*domain.BusinessHours{
		{Weekday: time.Monday, IsOpen: true, OpenTime: "09:00", CloseTime: "13:00"},
	}, nil)
	f.blocks.On("GetByDate", mock.Anything, monday).Return(blocks, nil)
	f.appointments.On("GetWithFilter", mock.Anything, mock.Anything).Return(existing, nil)
}

func (f *fixture) expectCreate() {
	f.appointments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Appointment")).
		Return(func(_ context.Context, a *domain.Appointment) *domain.Appointment {
			out := *a
			out.ID = 100
			return &out
		}, nil)
}

func baseRequest() *Request {
	return &Request{ClientID: 7, ServiceID: 1, Date: monday, StartTime: "10:00"}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture()
	f.withSchedule(nil, nil)
	f.expectCreate()

	notes := "  <b>short</b> nails  "
	req := baseRequest()
	req.Notes = &notes

	got, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(100), got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, "Gel", got.ServiceName)
	assert.Equal(t, 60, got.DurationMinutes)
	assert.Equal(t, 2000.0, got.FinalPrice)
	require.NotNil(t, got.Notes)
	assert.NotContains(t, *got.Notes, "<b>")
	assert.Equal(t, []types.Date{monday}, f.cache.invalidated)
	assert.Equal(t, []domain.NotificationEvent{domain.EventAppointmentCreated}, f.notifier.events)
}

func TestExecute_DefaultConfigWhenMissing(t *testing.T) {
	f := newFixture()
	f.services.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Service{ID: 1, Name: "Gel", DurationMinutes: 60, Price: 2000, Active: true}, nil)
	f.users.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Role: domain.RoleClient, Active: true}, nil)
	f.settings.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).Return(nil, settingsRepo.ErrConfigNotFound)
	f.settings.On("ListBusinessHours", mock.Anything).Return(domain.DefaultBusinessHours(), nil)
	f.blocks.On("GetByDate", mock.Anything, monday).Return(nil, nil)
	f.appointments.On("GetWithFilter", mock.Anything, mock.Anything).Return(nil, nil)
	f.expectCreate()

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
}

func TestExecute_SlotRejections(t *testing.T) {
	pro := int64(3)

	tests := []struct {
		name     string
		start    types.TimeString
		existing []*domain.Appointment
		blocks   []*domain.TimeBlock
		wantErr  error
	}{
		{
			name:    "not aligned with the grid",
			start:   "10:30",
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "ends after closing",
			start:   "13:00",
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "salon block",
			start:   "10:00",
			blocks:  []*domain.TimeBlock{{StartTime: "09:30", EndTime: "10:30"}},
			wantErr: ErrSlotBlocked,
		},
		{
			name:  "capacity reached",
			start: "10:00",
			existing: []*domain.Appointment{
				{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed, ProfessionalID: &pro},
			},
			wantErr: ErrSlotNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.withSchedule(tt.existing, tt.blocks)

			req := baseRequest()
			req.StartTime = tt.start

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestExecute_CancelledAppointmentFreesCapacity(t *testing.T) {
	f := newFixture()
	f.withSchedule([]*domain.Appointment{
		{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}, nil)
	f.expectCreate()

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
}

func TestExecute_DateChecks(t *testing.T) {
	t.Run("closed day", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)

		req := baseRequest()
		req.Date = monday.AddDays(-1)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSalonClosed)
	})

	t.Run("past date", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)

		req := baseRequest()
		req.Date = monday.AddDays(-7)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("beyond advance window", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)

		req := baseRequest()
		req.Date = monday.AddDays(35)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("too late to book", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)
		f.uc.WithTimeProvider(fixedTime{now: time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC)})

		_, err := f.uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})
}

func TestExecute_UnknownEntities(t *testing.T) {
	t.Run("inactive service", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Active: false}, nil)

		_, err := f.uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unknown client", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Active: true, DurationMinutes: 60}, nil)
		f.users.On("GetByID", mock.Anything, int64(7)).Return(nil, userRepo.ErrUserNotFound)

		_, err := f.uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("admin cannot be booked as client", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Active: true, DurationMinutes: 60}, nil)
		f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleAdmin, Active: true}, nil)

		_, err := f.uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("inactive professional", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Active: true, DurationMinutes: 60}, nil)
		f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleClient, Active: true}, nil)
		f.professionals.On("GetByID", mock.Anything, int64(3)).Return(&domain.Professional{ID: 3, Active: false}, nil)

		req := baseRequest()
		req.ProfessionalID = ptr.Ptr(int64(3))

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrProfessionalNotFound)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	req := baseRequest()
	req.StartTime = "25:00"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	f.services.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestExecute_AppliesCoupon(t *testing.T) {
	f := newFixture()
	f.withSchedule(nil, nil)
	f.expectCreate()
	f.coupons.On("GetByCode", mock.Anything, "SPRING").
		Return(&domain.Coupon{ID: 5, Code: "SPRING", DiscountType: domain.DiscountPercent, Value: 15, Active: true}, nil)
	f.coupons.On("IncrementUsage", mock.Anything, int64(5)).Return(nil)

	req := baseRequest()
	req.CouponCode = ptr.Ptr("SPRING")

	got, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ptr.Ptr(int64(5)), got.CouponID)
	assert.Equal(t, 300.0, got.Discount)
	assert.Equal(t, 1700.0, got.FinalPrice)
	f.coupons.AssertExpectations(t)
}

func TestExecute_CouponRejections(t *testing.T) {
	expired := now.Add(-time.Hour)

	tests := []struct {
		name      string
		coupon    *domain.Coupon
		lookupErr error
		incrErr   error
		wantCause error
	}{
		{
			name:      "unknown code",
			lookupErr: couponRepo.ErrCouponNotFound,
		},
		{
			name:      "expired",
			coupon:    &domain.Coupon{ID: 5, Code: "OLD", DiscountType: domain.DiscountFixed, Value: 100, Active: true, ValidUntil: &expired},
			wantCause: domain.ErrCouponExpired,
		},
		{
			name:      "below minimum amount",
			coupon:    &domain.Coupon{ID: 5, Code: "BIG", DiscountType: domain.DiscountFixed, Value: 100, MinAmount: 5000, Active: true},
			wantCause: domain.ErrCouponBelowMin,
		},
		{
			name:      "limit reached concurrently",
			coupon:    &domain.Coupon{ID: 5, Code: "LAST", DiscountType: domain.DiscountFixed, Value: 100, MaxUses: 1, Active: true},
			incrErr:   couponRepo.ErrUsageLimitReached,
			wantCause: domain.ErrCouponExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.withSchedule(nil, nil)
			f.coupons.On("GetByCode", mock.Anything, "CODE").Return(tt.coupon, tt.lookupErr)
			f.coupons.On("IncrementUsage", mock.Anything, int64(5)).Return(tt.incrErr)

			req := baseRequest()
			req.CouponCode = ptr.Ptr("CODE")

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidCoupon)
			if tt.wantCause != nil {
				assert.Contains(t, err.Error(), tt.wantCause.Error())
			}
			f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_ConvertsWaitlistOffer(t *testing.T) {
	expires := now.Add(30 * time.Minute)
	offer := &domain.WaitlistEntry{
		ID: 9, ClientID: 7, ServiceID: 1, Date: monday,
		Status: domain.WaitlistNotified, ExpiresAt: &expires,
	}

	t.Run("valid offer", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)
		f.expectCreate()
		f.waitlist.On("GetByID", mock.Anything, int64(9)).Return(offer, nil)
		f.waitlist.On("UpdateStatus", mock.Anything, int64(9),
			[]domain.WaitlistStatus{domain.WaitlistNotified}, domain.WaitlistConverted, now).Return(nil)

		req := baseRequest()
		req.WaitlistID = ptr.Ptr(int64(9))

		got, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ptr.Ptr(int64(9)), got.WaitlistID)
		f.waitlist.AssertExpectations(t)
	})

	t.Run("someone else's entry", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)
		foreign := *offer
		foreign.ClientID = 8
		f.waitlist.On("GetByID", mock.Anything, int64(9)).Return(&foreign, nil)

		req := baseRequest()
		req.WaitlistID = ptr.Ptr(int64(9))

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidWaitlistEntry)
		f.waitlist.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired offer", func(t *testing.T) {
		f := newFixture()
		f.withSchedule(nil, nil)
		stale := *offer
		past := now.Add(-time.Minute)
		stale.ExpiresAt = &past
		f.waitlist.On("GetByID", mock.Anything, int64(9)).Return(&stale, nil)

		req := baseRequest()
		req.WaitlistID = ptr.Ptr(int64(9))

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidWaitlistEntry)
	})
}

func TestExecute_RepositoryFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.withSchedule(nil, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.cache.invalidated)
}
