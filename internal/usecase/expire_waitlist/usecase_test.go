package expire_waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockWaitlist struct{ mock.Mock }

func (m *mockWaitlist) GetExpired(ctx context.Context, now time.Time) ([]*domain.WaitlistEntry, error) {
	args := m.Called(ctx, now)
	e, _ := args.Get(0).([]*domain.WaitlistEntry)
	return e, args.Error(1)
}

func (m *mockWaitlist) UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

type mockPromoter struct{ mock.Mock }

func (m *mockPromoter) Execute(ctx context.Context, serviceID int64, date types.Date, freed types.TimeString) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, serviceID, date, freed)
	e, _ := args.Get(0).(*domain.WaitlistEntry)
	return e, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	now     = time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	date    = types.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))
	offered = types.TimeString("11:00")
	toExp   = []domain.WaitlistStatus{domain.WaitlistNotified}
)

func TestExecute_ExpiresAndPromotesNext(t *testing.T) {
	repo := &mockWaitlist{}
	promoter := &mockPromoter{}
	uc := NewUseCase(repo, promoter, logger.NewNop()).WithTimeProvider(fixedTime{now: now})

	repo.On("GetExpired", mock.Anything, now).Return([]*domain.WaitlistEntry{
		{ID: 1, ServiceID: 3, Date: date, Status: domain.WaitlistNotified, OfferedTime: &offered},
		{ID: 2, ServiceID: 3, Date: date, Status: domain.WaitlistNotified, OfferedTime: &offered},
		{ID: 3, ServiceID: 4, Date: date, Status: domain.WaitlistNotified},
	}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(1), toExp, domain.WaitlistExpired, now).Return(nil)
	repo.On("UpdateStatus", mock.Anything, int64(2), toExp, domain.WaitlistExpired, now).Return(waitlistRepo.ErrStatusConflict)
	repo.On("UpdateStatus", mock.Anything, int64(3), toExp, domain.WaitlistExpired, now).Return(nil)
	promoter.On("Execute", mock.Anything, int64(3), date, offered).Return(&domain.WaitlistEntry{ID: 9}, nil).Once()

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Result{Expired: 2, Promoted: 1}, result)
	repo.AssertExpectations(t)
	promoter.AssertExpectations(t)
}

func TestExecute_PromotionErrorIsTolerated(t *testing.T) {
	repo := &mockWaitlist{}
	promoter := &mockPromoter{}
	uc := NewUseCase(repo, promoter, logger.NewNop()).WithTimeProvider(fixedTime{now: now})

	repo.On("GetExpired", mock.Anything, now).Return([]*domain.WaitlistEntry{
		{ID: 1, ServiceID: 3, Date: date, OfferedTime: &offered},
	}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(1), toExp, domain.WaitlistExpired, now).Return(nil)
	promoter.On("Execute", mock.Anything, int64(3), date, offered).Return(nil, errors.New("timeout"))

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Result{Expired: 1}, result)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &mockWaitlist{}
	uc := NewUseCase(repo, &mockPromoter{}, logger.NewNop()).WithTimeProvider(fixedTime{now: now})
	repo.On("GetExpired", mock.Anything, now).Return(nil, errors.New("closed"))

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
