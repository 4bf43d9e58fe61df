package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, e)
	out := *e
	out.ID = 21
	out.Status = domain.WaitlistWaiting
	return &out, args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.WaitlistEntry)
	return e, args.Error(1)
}

func (m *mockRepo) GetByClientID(ctx context.Context, clientID int64) ([]*domain.WaitlistEntry, error) {
	args := m.Called(ctx, clientID)
	e, _ := args.Get(0).([]*domain.WaitlistEntry)
	return e, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error) {
	args := m.Called(ctx, filter)
	e, _ := args.Get(0).([]*domain.WaitlistEntry)
	return e, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

type mockServices struct{ mock.Mock }

func (m *mockServices) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

type mockPromoter struct{ mock.Mock }

func (m *mockPromoter) Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, serviceID, date, freed)
	e, _ := args.Get(0).(*domain.WaitlistEntry)
	return e, args.Error(1)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var (
	now    = time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC)
	monday = types.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))
)

func setup() (*Service, *mockRepo, *mockServices, *mockPromoter) {
	repo := &mockRepo{}
	services := &mockServices{}
	promoter := &mockPromoter{}
	svc := NewService(repo, services, promoter, logger.NewNop()).WithTimeProvider(fixedTime{now})
	return svc, repo, services, promoter
}

func TestJoin(t *testing.T) {
	svc, repo, services, _ := setup()
	services.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Active: true}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.WaitlistEntry) bool {
		return e.ClientID == 3 && e.Date.Equal(monday) && e.PreferredTime != nil && *e.PreferredTime == "10:00"
	})).Return(nil)

	resp, err := svc.Join(context.Background(), &JoinRequest{
		ClientID: 3, ServiceID: 1, Date: "2026-11-02", PreferredTime: ptr.Ptr("10:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), resp.ID)
	assert.Equal(t, "waiting", resp.Status)
	assert.Equal(t, "10:00", *resp.PreferredTime)
}

func TestJoin_Rejections(t *testing.T) {
	svc, repo, services, _ := setup()
	services.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Active: true}, nil)
	services.On("GetByID", mock.Anything, int64(2)).Return(&domain.Service{ID: 2, Active: false}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(waitlistRepo.ErrAlreadyWaiting)

	_, err := svc.Join(context.Background(), &JoinRequest{ClientID: 3, ServiceID: 1, Date: "2026-10-29"})
	assert.ErrorIs(t, err, ErrInvalidInput, "past date")

	_, err = svc.Join(context.Background(), &JoinRequest{ClientID: 3, ServiceID: 1, Date: "2026-11-02", PreferredTime: ptr.Ptr("25:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Join(context.Background(), &JoinRequest{ClientID: 3, ServiceID: 2, Date: "2026-11-02"})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.Join(context.Background(), &JoinRequest{ClientID: 3, ServiceID: 1, Date: "2026-11-02"})
	assert.ErrorIs(t, err, ErrAlreadyWaiting)
}

func TestLeave_NotifiedEntryPassesOfferOn(t *testing.T) {
	svc, repo, _, promoter := setup()
	offered := types.TimeString("10:00")
	repo.On("GetByID", mock.Anything, int64(21)).Return(&domain.WaitlistEntry{
		ID: 21, ClientID: 3, ServiceID: 1, Date: monday, Status: domain.WaitlistNotified, OfferedTime: &offered,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(21),
		[]domain.WaitlistStatus{domain.WaitlistWaiting, domain.WaitlistNotified}, domain.WaitlistCancelled, now).Return(nil)
	promoter.On("Execute", mock.Anything, int64(1), monday, offered).Return(nil, nil)

	require.NoError(t, svc.Leave(context.Background(), 21, 3))
	promoter.AssertExpectations(t)
}

func TestLeave_Rejections(t *testing.T) {
	svc, repo, _, promoter := setup()
	repo.On("GetByID", mock.Anything, int64(21)).Return(&domain.WaitlistEntry{ID: 21, ClientID: 3, Status: domain.WaitlistWaiting}, nil)
	repo.On("GetByID", mock.Anything, int64(22)).Return(&domain.WaitlistEntry{ID: 22, ClientID: 3, Status: domain.WaitlistExpired}, nil)
	repo.On("GetByID", mock.Anything, int64(23)).Return(nil, waitlistRepo.ErrEntryNotFound)

	assert.ErrorIs(t, svc.Leave(context.Background(), 21, 4), ErrAccessDenied)
	assert.ErrorIs(t, svc.Leave(context.Background(), 22, 3), ErrNotActive)
	assert.ErrorIs(t, svc.Leave(context.Background(), 23, 3), ErrEntryNotFound)
	promoter.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestList_InvalidStatus(t *testing.T) {
	svc, _, _, _ := setup()

	_, err := svc.List(context.Background(), &ListRequest{Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
