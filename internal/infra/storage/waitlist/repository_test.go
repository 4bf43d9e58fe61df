package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

func TestRepository_QueueOrderAndUniqueness(t *testing.T) {
	db := storagetest.New(t)
	repo := NewRepository(db, db.Builder)
	ctx := context.Background()

	anna := db.SeedUser(t, "anna@example.com", "client")
	olga := db.SeedUser(t, "olga@example.com", "client")
	serviceID := db.SeedService(t, "Gel manicure", 60, 50)
	day, err := types.ParseDate("2026-11-02")
	require.NoError(t, err)

	first, err := repo.Create(ctx, &domain.WaitlistEntry{ClientID: anna, ServiceID: serviceID, Date: day})
	require.NoError(t, err)
	assert.Equal(t, domain.WaitlistWaiting, first.Status)

	preferred := types.TimeString("15:00")
	_, err = repo.Create(ctx, &domain.WaitlistEntry{ClientID: olga, ServiceID: serviceID, Date: day, PreferredTime: &preferred})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.WaitlistEntry{ClientID: anna, ServiceID: serviceID, Date: day})
	assert.ErrorIs(t, err, ErrAlreadyWaiting)

	queue, err := repo.GetWaiting(ctx, serviceID, day)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, anna, queue[0].ClientID)
	assert.Nil(t, queue[0].PreferredTime)
	require.NotNil(t, queue[1].PreferredTime)
	assert.Equal(t, "15:00", queue[1].PreferredTime.String())

	require.NoError(t, repo.UpdateStatus(ctx, first.ID,
		[]domain.WaitlistStatus{domain.WaitlistWaiting, domain.WaitlistNotified}, domain.WaitlistCancelled, time.Now()))

	// после отмены клиент может снова встать в очередь
	_, err = repo.Create(ctx, &domain.WaitlistEntry{ClientID: anna, ServiceID: serviceID, Date: day})
	require.NoError(t, err)

	mine, err := repo.GetByClientID(ctx, anna)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	cancelled := domain.WaitlistCancelled
	list, err := repo.List(ctx, domain.WaitlistFilter{Status: &cancelled})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_NotifyAndExpire(t *testing.T) {
	db := storagetest.New(t)
	repo := NewRepository(db, db.Builder)
	ctx := context.Background()

	anna := db.SeedUser(t, "anna@example.com", "client")
	serviceID := db.SeedService(t, "Gel manicure", 60, 50)
	day, err := types.ParseDate("2026-11-02")
	require.NoError(t, err)

	entry, err := repo.Create(ctx, &domain.WaitlistEntry{ClientID: anna, ServiceID: serviceID, Date: day})
	require.NoError(t, err)

	notifiedAt := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkNotified(ctx, entry.ID, "11:00", notifiedAt, notifiedAt.Add(time.Hour)))
	assert.ErrorIs(t, repo.MarkNotified(ctx, entry.ID, "11:00", notifiedAt, notifiedAt.Add(time.Hour)), ErrStatusConflict)

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WaitlistNotified, got.Status)
	assert.Equal(t, ptr.Ptr(types.TimeString("11:00")), got.OfferedTime)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, notifiedAt.Add(time.Hour).Equal(*got.ExpiresAt))

	expired, err := repo.GetExpired(ctx, notifiedAt.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, expired)

	expired, err = repo.GetExpired(ctx, notifiedAt.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, entry.ID, expired[0].ID)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 404, []domain.WaitlistStatus{domain.WaitlistNotified}, domain.WaitlistExpired, time.Now()), ErrEntryNotFound)
}
