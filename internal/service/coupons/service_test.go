package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	couponRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	args := m.Called(ctx, c)
	out := *c
	out.ID = 5
	return &out, args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context) ([]*domain.Coupon, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, c *domain.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, int64, string, string, *int64, interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var now = time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC)

func setup() (*Service, *mockRepo) {
	repo := &mockRepo{}
	return NewService(repo, nopAudit{}, logger.NewNop()).WithTimeProvider(fixedTime{now}), repo
}

func TestValidate(t *testing.T) {
	svc, repo := setup()
	repo.On("GetByCode", mock.Anything, "AUTUMN").Return(&domain.Coupon{
		ID: 5, Code: "AUTUMN", DiscountType: domain.DiscountFixed, Value: 500, MinAmount: 1000, Active: true,
	}, nil)
	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, couponRepo.ErrCouponNotFound)

	resp, err := svc.Validate(context.Background(), " autumn ", 1500)
	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.Discount)
	assert.Equal(t, 1000.0, resp.FinalAmount)

	_, err = svc.Validate(context.Background(), "autumn", 900)
	assert.ErrorIs(t, err, ErrNotApplicable)

	_, err = svc.Validate(context.Background(), "nope", 900)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = svc.Validate(context.Background(), "", 900)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidate_Expired(t *testing.T) {
	svc, repo := setup()
	until := now.Add(-time.Hour)
	repo.On("GetByCode", mock.Anything, "OLD").Return(&domain.Coupon{
		Code: "OLD", DiscountType: domain.DiscountPercent, Value: 10, ValidUntil: &until, Active: true,
	}, nil)

	_, err := svc.Validate(context.Background(), "old", 1000)
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.ErrorContains(t, err, domain.ErrCouponExpired.Error())
}

func TestCreate(t *testing.T) {
	svc, repo := setup()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Coupon) bool {
		return c.Code == "WELCOME10" && c.Active
	})).Return(nil)

	resp, err := svc.Create(context.Background(), &CreateRequest{
		ActorID: 1, Code: "welcome10", DiscountType: "percent", Value: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "WELCOME10", resp.Code)
}

func TestCreate_Rejections(t *testing.T) {
	svc, repo := setup()
	repo.On("Create", mock.Anything, mock.Anything).Return(couponRepo.ErrCodeTaken)
	from := now.Add(time.Hour)

	cases := []*CreateRequest{
		{Code: "", DiscountType: "percent", Value: 10},
		{Code: "X", DiscountType: "bogus", Value: 10},
		{Code: "X", DiscountType: "percent", Value: 120},
		{Code: "X", DiscountType: "fixed", Value: 0},
		{Code: "X", DiscountType: "fixed", Value: 100, MaxUses: -1},
		{Code: "X", DiscountType: "fixed", Value: 100, ValidFrom: &from, ValidUntil: &now},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", req)
	}

	_, err := svc.Create(context.Background(), &CreateRequest{Code: "X", DiscountType: "fixed", Value: 100})
	assert.ErrorIs(t, err, ErrCodeTaken)
}

func TestUpdate(t *testing.T) {
	svc, repo := setup()
	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.Coupon{
		ID: 5, Code: "AUTUMN", DiscountType: domain.DiscountFixed, Value: 500, UsedCount: 3, Active: true,
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Update(context.Background(), 5, &UpdateRequest{Active: ptr.Ptr(false), MaxUses: ptr.Ptr(10)})
	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.Equal(t, 10, resp.MaxUses)
	assert.Equal(t, 3, resp.UsedCount)

	_, err = svc.Update(context.Background(), 5, &UpdateRequest{DiscountType: ptr.Ptr("percent"), Value: ptr.Ptr(150.0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
