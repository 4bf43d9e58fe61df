package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

func TestRepository_ConfigHierarchy(t *testing.T) {
	db := storagetest.New(t)
	repo := NewRepository(db, db.Builder)
	ctx := context.Background()

	// глобальная конфигурация создается миграцией
	global, err := repo.GetConfigWithHierarchy(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, global.ServiceID)
	assert.Equal(t, 30, global.SlotDurationMinutes)

	serviceID := db.SeedService(t, "Gel", 90, 45)

	// без переопределения услуга получает глобальную конфигурацию
	cfg, err := repo.GetConfigWithHierarchy(ctx, &serviceID)
	require.NoError(t, err)
	assert.Equal(t, global.ID, cfg.ID)

	override, err := repo.Upsert(ctx, &domain.SchedulingConfig{
		ServiceID:               &serviceID,
		SlotDurationMinutes:     15,
		MaxConcurrentBookings:   3,
		MinBookingNoticeMinutes: 30,
		WaitlistHoldMinutes:     30,
	})
	require.NoError(t, err)
	assert.Positive(t, override.ID)

	cfg, err = repo.GetConfigWithHierarchy(ctx, &serviceID)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.SlotDurationMinutes)
	assert.Equal(t, 3, cfg.MaxConcurrentBookings)

	// повторный upsert обновляет ту же строку
	override.SlotDurationMinutes = 20
	updated, err := repo.Upsert(ctx, override)
	require.NoError(t, err)
	assert.Equal(t, override.ID, updated.ID)
	assert.Equal(t, 20, updated.SlotDurationMinutes)

	all, err := repo.ListConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].ServiceID)

	require.NoError(t, repo.DeleteServiceConfig(ctx, serviceID))
	assert.ErrorIs(t, repo.DeleteServiceConfig(ctx, serviceID), ErrConfigNotFound)

	_, err = repo.GetByService(ctx, ptr.Ptr(serviceID))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestRepository_BusinessHours(t *testing.T) {
	db := storagetest.New(t)
	repo := NewRepository(db, db.Builder)
	ctx := context.Background()

	week, err := repo.ListBusinessHours(ctx)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.False(t, week[0].IsOpen)
	assert.Equal(t, "09:00", week[1].OpenTime.String())

	require.NoError(t, repo.UpsertBusinessHours(ctx, &domain.BusinessHours{
		Weekday: time.Sunday, IsOpen: true, OpenTime: "10:00", CloseTime: "16:00",
	}))
	require.NoError(t, repo.UpsertBusinessHours(ctx, &domain.BusinessHours{
		Weekday: time.Monday, IsOpen: false, OpenTime: "09:00", CloseTime: "19:00",
	}))

	week, err = repo.ListBusinessHours(ctx)
	require.NoError(t, err)
	assert.True(t, week[0].IsOpen)
	assert.Equal(t, "10:00", week[0].OpenTime.String())
	assert.False(t, week[1].IsOpen)
	assert.True(t, week[1].OpenTime.IsZero())
}
