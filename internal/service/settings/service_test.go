package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	"github.com/m04kA/SMC-NailSalon/internal/service/settings/models"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

type mockSettings struct{ mock.Mock }

func (m *mockSettings) GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error) {
	args := m.Called(ctx, serviceID)
	c, _ := args.Get(0).(*domain.SchedulingConfig)
	return c, args.Error(1)
}

func (m *mockSettings) ListConfigs(ctx context.Context) ([]*domain.SchedulingConfig, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*domain.SchedulingConfig)
	return c, args.Error(1)
}

func (m *mockSettings) Upsert(ctx context.Context, cfg *domain.SchedulingConfig) (*domain.SchedulingConfig, error) {
	args := m.Called(ctx, cfg)
	out := *cfg
	out.ID = 42
	return &out, args.Error(0)
}

func (m *mockSettings) DeleteServiceConfig(ctx context.Context, serviceID int64) error {
	return m.Called(ctx, serviceID).Error(0)
}

func (m *mockSettings) ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).([]*domain.BusinessHours)
	return h, args.Error(1)
}

func (m *mockSettings) UpsertBusinessHours(ctx context.Context, bh *domain.BusinessHours) error {
	return m.Called(ctx, bh).Error(0)
}

type mockServices struct{ mock.Mock }

func (m *mockServices) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

type countingCache struct{ calls int }

func (c *countingCache) InvalidateAll(context.Context) error {
	c.calls++
	return nil
}

type recordedAction struct {
	action, entity string
}

type recordingAudit struct{ actions []recordedAction }

func (a *recordingAudit) Record(_ context.Context, _ int64, action, entity string, _ *int64, _ interface{}) {
	a.actions = append(a.actions, recordedAction{action: action, entity: entity})
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	repo     *mockSettings
	services *mockServices
	cache    *countingCache
	audit    *recordingAudit
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &mockSettings{},
		services: &mockServices{},
		cache:    &countingCache{},
		audit:    &recordingAudit{},
	}
	f.svc = NewService(f.repo, f.services, f.cache, f.audit, passThroughTx{}, logger.NewNop())
	return f
}

func TestGetEffective_FallsBackToDefaults(t *testing.T) {
	f := newFixture()
	f.repo.On("GetConfigWithHierarchy", mock.Anything, (*int64)(nil)).Return(nil, settingsRepo.ErrConfigNotFound)

	resp, err := f.svc.GetEffective(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
	assert.Equal(t, domain.DefaultWaitlistHoldMinutes, resp.WaitlistHoldMinutes)
}

func TestUpsert_PartialUpdateOverEffectiveConfig(t *testing.T) {
	f := newFixture()
	serviceID := ptr.Ptr(int64(3))
	f.services.On("GetByID", mock.Anything, int64(3)).Return(&domain.Service{ID: 3}, nil)
	f.repo.On("GetConfigWithHierarchy", mock.Anything, serviceID).Return(&domain.SchedulingConfig{
		ID: 1, SlotDurationMinutes: 30, MaxConcurrentBookings: 2, AdvanceBookingDays: 60,
		MinBookingNoticeMinutes: 60, CancellationNoticeMinutes: 120, WaitlistHoldMinutes: 60,
	}, nil)
	f.repo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *domain.SchedulingConfig) bool {
		return *c.ServiceID == 3 && c.SlotDurationMinutes == 45 && c.MaxConcurrentBookings == 2
	})).Return(nil)

	resp, err := f.svc.Upsert(context.Background(), &models.UpsertConfigRequest{
		ActorID:             1,
		ServiceID:           serviceID,
		SlotDurationMinutes: ptr.Ptr(45),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, 45, resp.SlotDurationMinutes)
	assert.Equal(t, 1, f.cache.calls)
	assert.Equal(t, []recordedAction{{action: domain.AuditUpdate, entity: entityConfig}}, f.audit.actions)
}

func TestUpsert_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpsertConfigRequest
	}{
		{name: "slot too short", req: &models.UpsertConfigRequest{SlotDurationMinutes: ptr.Ptr(1)}},
		{name: "no capacity", req: &models.UpsertConfigRequest{MaxConcurrentBookings: ptr.Ptr(0)}},
		{name: "negative advance", req: &models.UpsertConfigRequest{AdvanceBookingDays: ptr.Ptr(-1)}},
		{name: "zero hold", req: &models.UpsertConfigRequest{WaitlistHoldMinutes: ptr.Ptr(0)}},
		{name: "cancellation notice too long", req: &models.UpsertConfigRequest{CancellationNoticeMinutes: ptr.Ptr(domain.MaxCancellationNotice + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetConfigWithHierarchy", mock.Anything, mock.Anything).Return(nil, settingsRepo.ErrConfigNotFound)

			_, err := f.svc.Upsert(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			f.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpsert_UnknownService(t *testing.T) {
	f := newFixture()
	f.services.On("GetByID", mock.Anything, int64(9)).Return(nil, catalogRepo.ErrServiceNotFound)

	_, err := f.svc.Upsert(context.Background(), &models.UpsertConfigRequest{ServiceID: ptr.Ptr(int64(9))})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDeleteServiceConfig_NotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("DeleteServiceConfig", mock.Anything, int64(3)).Return(settingsRepo.ErrConfigNotFound)

	err := f.svc.DeleteServiceConfig(context.Background(), 3, 1)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Zero(t, f.cache.calls)
}

func TestUpdateBusinessHours(t *testing.T) {
	f := newFixture()
	f.repo.On("UpsertBusinessHours", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("ListBusinessHours", mock.Anything).Return([]*domain.BusinessHours{
		{Weekday: time.Monday, IsOpen: true, OpenTime: "10:00", CloseTime: "20:00"},
		{Weekday: time.Sunday, IsOpen: false},
	}, nil)

	resp, err := f.svc.UpdateBusinessHours(context.Background(), &models.UpdateBusinessHoursRequest{
		ActorID: 1,
		Days: []models.BusinessHoursRequest{
			{Weekday: time.Monday, IsOpen: true, OpenTime: "10:00", CloseTime: "20:00"},
			{Weekday: time.Sunday, IsOpen: false},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 7)
	assert.Equal(t, time.Monday, resp.Days[0].Weekday)
	assert.Equal(t, "10:00", resp.Days[0].OpenTime)
	assert.Equal(t, time.Sunday, resp.Days[6].Weekday)
	assert.False(t, resp.Days[6].IsOpen)
	f.repo.AssertNumberOfCalls(t, "UpsertBusinessHours", 2)
	assert.Equal(t, 1, f.cache.calls)
}

func TestUpdateBusinessHours_Validation(t *testing.T) {
	tests := []struct {
		name string
		days []models.BusinessHoursRequest
	}{
		{name: "empty", days: nil},
		{name: "close before open", days: []models.BusinessHoursRequest{{Weekday: time.Monday, IsOpen: true, OpenTime: "18:00", CloseTime: "09:00"}}},
		{name: "bad time", days: []models.BusinessHoursRequest{{Weekday: time.Monday, IsOpen: true, OpenTime: "9am", CloseTime: "18:00"}}},
		{name: "bad weekday", days: []models.BusinessHoursRequest{{Weekday: 7}}},
		{name: "repeated day", days: []models.BusinessHoursRequest{{Weekday: time.Monday}, {Weekday: time.Monday}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.UpdateBusinessHours(context.Background(), &models.UpdateBusinessHoursRequest{Days: tt.days})
			assert.ErrorIs(t, err, ErrInvalidInput)
			f.repo.AssertNotCalled(t, "UpsertBusinessHours", mock.Anything, mock.Anything)
		})
	}
}
