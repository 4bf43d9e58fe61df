package reviews

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	reviewRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/review"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, rv)
	out := *rv
	out.ID = 30
	return &out, args.Error(0)
}

func (m *mockRepo) ListApproved(ctx context.Context, serviceID *int64) ([]*domain.Review, error) {
	args := m.Called(ctx, serviceID)
	r, _ := args.Get(0).([]*domain.Review)
	return r, args.Error(1)
}

func (m *mockRepo) ListAll(ctx context.Context, pendingOnly bool) ([]*domain.Review, error) {
	args := m.Called(ctx, pendingOnly)
	r, _ := args.Get(0).([]*domain.Review)
	return r, args.Error(1)
}

func (m *mockRepo) Summary(ctx context.Context, serviceID *int64) (domain.ReviewSummary, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).(domain.ReviewSummary), args.Error(1)
}

func (m *mockRepo) Approve(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, int64, string, string, *int64, interface{}) {}

func setup() (*Service, *mockRepo, *mockAppointments) {
	repo := &mockRepo{}
	appointments := &mockAppointments{}
	appointments.On("GetByID", mock.Anything, int64(7)).Return(&domain.Appointment{ID: 7, ClientID: 3, ServiceID: 1, Status: domain.StatusCompleted}, nil)
	appointments.On("GetByID", mock.Anything, int64(8)).Return(&domain.Appointment{ID: 8, ClientID: 3, ServiceID: 1, Status: domain.StatusConfirmed}, nil)
	return NewService(repo, appointments, nopAudit{}, logger.NewNop()), repo, appointments
}

func TestCreate_SanitizesComment(t *testing.T) {
	svc, repo, _ := setup()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(rv *domain.Review) bool {
		return rv.ServiceID == 1 && rv.Comment != nil && *rv.Comment == "Great job"
	})).Return(nil)

	resp, err := svc.Create(context.Background(), &CreateRequest{
		ClientID: 3, AppointmentID: 7, Rating: 5, Comment: ptr.Ptr("<script>alert(1)</script>Great job"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), resp.ID)
	assert.False(t, resp.Approved)
}

func TestCreate_Rejections(t *testing.T) {
	svc, repo, _ := setup()
	repo.On("Create", mock.Anything, mock.Anything).Return(reviewRepo.ErrAlreadyReviewed)

	cases := []struct {
		name string
		req  *CreateRequest
		want error
	}{
		{"rating too low", &CreateRequest{ClientID: 3, AppointmentID: 7, Rating: 0}, ErrInvalidInput},
		{"rating too high", &CreateRequest{ClientID: 3, AppointmentID: 7, Rating: 6}, ErrInvalidInput},
		{"comment too long", &CreateRequest{ClientID: 3, AppointmentID: 7, Rating: 4, Comment: ptr.Ptr(strings.Repeat("a", 1001))}, ErrInvalidInput},
		{"foreign appointment", &CreateRequest{ClientID: 4, AppointmentID: 7, Rating: 4}, ErrAppointmentNotFound},
		{"not completed", &CreateRequest{ClientID: 3, AppointmentID: 8, Rating: 4}, ErrNotCompleted},
		{"second review", &CreateRequest{ClientID: 3, AppointmentID: 7, Rating: 4}, ErrAlreadyReviewed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListPublic_WithSummary(t *testing.T) {
	svc, repo, _ := setup()
	serviceID := ptr.Ptr(int64(1))
	repo.On("ListApproved", mock.Anything, serviceID).Return([]*domain.Review{{ID: 1, Rating: 5, Approved: true}}, nil)
	repo.On("Summary", mock.Anything, serviceID).Return(domain.ReviewSummary{Count: 3, AverageRating: 4.666666}, nil)

	resp, err := svc.ListPublic(context.Background(), serviceID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 4.67, resp.AverageRating)
}

func TestApproveAndDelete_NotFound(t *testing.T) {
	svc, repo, _ := setup()
	repo.On("Approve", mock.Anything, int64(99)).Return(reviewRepo.ErrReviewNotFound)
	repo.On("Delete", mock.Anything, int64(99)).Return(reviewRepo.ErrReviewNotFound)

	assert.ErrorIs(t, svc.Approve(context.Background(), 99, 1), ErrReviewNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 99, 1), ErrReviewNotFound)
}
