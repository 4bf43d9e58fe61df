package timeblocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	timeblockRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/timeblock"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, b *domain.TimeBlock) (*domain.TimeBlock, error) {
	args := m.Called(ctx, b)
	out := *b
	out.ID = 12
	return &out, args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.TimeBlock)
	return b, args.Error(1)
}

func (m *mockRepo) GetByDateRange(ctx context.Context, from, to types.Date) ([]*domain.TimeBlock, error) {
	args := m.Called(ctx, from, to)
	b, _ := args.Get(0).([]*domain.TimeBlock)
	return b, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error) {
	args := m.Called(ctx, date)
	a, _ := args.Get(0).([]*domain.Appointment)
	return a, args.Error(1)
}

type recordingCache struct {
	dates []types.Date
}

func (c *recordingCache) InvalidateDate(_ context.Context, date types.Date) error {
	c.dates = append(c.dates, date)
	return nil
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, int64, string, string, *int64, interface{}) {}

var monday = types.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))

func setup() (*Service, *mockRepo, *mockAppointments, *recordingCache) {
	repo := &mockRepo{}
	appointments := &mockAppointments{}
	cache := &recordingCache{}
	return NewService(repo, appointments, cache, nopAudit{}, logger.NewNop()), repo, appointments, cache
}

func booked(id int64, start types.TimeString, professionalID *int64) *domain.Appointment {
	return &domain.Appointment{
		ID: id, Date: monday, StartTime: start, DurationMinutes: 60,
		ProfessionalID: professionalID, Status: domain.StatusConfirmed,
	}
}

func TestCreate_NoConflicts(t *testing.T) {
	svc, repo, appointments, cache := setup()
	// запись 12:00-13:00 касается блокировки 13:00-15:00, но не пересекает ее
	appointments.On("GetActiveByDate", mock.Anything, monday).Return([]*domain.Appointment{booked(1, "12:00", nil)}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), &CreateRequest{
		ActorID: 1, Date: "2026-11-02", StartTime: "13:00", EndTime: "15:00", Reason: ptr.Ptr("  training  "),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.ID)
	assert.Equal(t, "training", *resp.Reason)
	assert.Empty(t, resp.ConflictingAppointments)
	assert.Equal(t, []types.Date{monday}, cache.dates)
}

func TestCreate_OverlapRejectedUnlessForced(t *testing.T) {
	svc, repo, appointments, _ := setup()
	appointments.On("GetActiveByDate", mock.Anything, monday).Return([]*domain.Appointment{
		booked(1, "13:30", nil),
		booked(2, "14:00", ptr.Ptr(int64(5))),
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := &CreateRequest{ActorID: 1, Date: "2026-11-02", StartTime: "13:00", EndTime: "15:00"}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrOverlapsAppointments)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	req.Force = true
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, resp.ConflictingAppointments)
}

func TestCreate_ProfessionalBlockIgnoresOtherProfessionals(t *testing.T) {
	svc, repo, appointments, _ := setup()
	appointments.On("GetActiveByDate", mock.Anything, monday).Return([]*domain.Appointment{
		booked(1, "13:30", ptr.Ptr(int64(6))),
		booked(2, "13:30", nil),
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), &CreateRequest{
		ActorID: 1, Date: "2026-11-02", StartTime: "13:00", EndTime: "15:00", ProfessionalID: ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ConflictingAppointments)
}

func TestCreate_InvalidInput(t *testing.T) {
	svc, _, _, _ := setup()

	cases := []CreateRequest{
		{Date: "02.11.2026", StartTime: "13:00", EndTime: "15:00"},
		{Date: "2026-11-02", StartTime: "1300", EndTime: "15:00"},
		{Date: "2026-11-02", StartTime: "15:00", EndTime: "15:00"},
		{Date: "2026-11-02", StartTime: "16:00", EndTime: "15:00"},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), &req)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", req)
	}
}

func TestList_InvalidRange(t *testing.T) {
	svc, _, _, _ := setup()

	_, err := svc.List(context.Background(), "2026-11-05", "2026-11-02")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), "2026-11-05", "not-a-date")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	svc, repo, _, cache := setup()
	repo.On("GetByID", mock.Anything, int64(12)).Return(&domain.TimeBlock{ID: 12, Date: monday, StartTime: "13:00", EndTime: "15:00"}, nil)
	repo.On("Delete", mock.Anything, int64(12)).Return(nil)
	repo.On("GetByID", mock.Anything, int64(13)).Return(nil, timeblockRepo.ErrTimeBlockNotFound)

	require.NoError(t, svc.Delete(context.Background(), 12, 1))
	assert.Equal(t, []types.Date{monday}, cache.dates)

	assert.ErrorIs(t, svc.Delete(context.Background(), 13, 1), ErrTimeBlockNotFound)
}
