package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

func TestRepository_ModerationFlow(t *testing.T) {
	db := storagetest.New(t)
	repo := NewRepository(db, db.Builder)
	ctx := context.Background()

	clientID := db.SeedUser(t, "anna@example.com", "client")
	manicure := db.SeedService(t, "Gel manicure", 60, 50)
	pedicure := db.SeedService(t, "Pedicure", 60, 40)
	a1 := db.SeedAppointment(t, clientID, manicure, "2026-11-02", "10:00", "completed")
	a2 := db.SeedAppointment(t, clientID, pedicure, "2026-11-03", "10:00", "completed")
	a3 := db.SeedAppointment(t, clientID, manicure, "2026-11-04", "10:00", "completed")

	r1, err := repo.Create(ctx, &domain.Review{AppointmentID: a1, ClientID: clientID, ServiceID: manicure, Rating: 5, Comment: ptr.Ptr("perfect")})
	require.NoError(t, err)
	r2, err := repo.Create(ctx, &domain.Review{AppointmentID: a2, ClientID: clientID, ServiceID: pedicure, Rating: 3})
	require.NoError(t, err)
	r3, err := repo.Create(ctx, &domain.Review{AppointmentID: a3, ClientID: clientID, ServiceID: manicure, Rating: 4})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Review{AppointmentID: a1, ClientID: clientID, ServiceID: manicure, Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	public, err := repo.ListApproved(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, public)

	pending, err := repo.ListAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	require.NoError(t, repo.Approve(ctx, r1.ID))
	require.NoError(t, repo.Approve(ctx, r2.ID))
	require.NoError(t, repo.Approve(ctx, r3.ID))
	assert.ErrorIs(t, repo.Approve(ctx, 404), ErrReviewNotFound)

	public, err = repo.ListApproved(ctx, &manicure)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "User anna@example.com", public[0].ClientName)

	summary, err := repo.Summary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{Count: 3, AverageRating: 4}, summary)

	summary, err = repo.Summary(ctx, &manicure)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{Count: 2, AverageRating: 4.5}, summary)

	require.NoError(t, repo.Delete(ctx, r2.ID))
	_, err = repo.GetByID(ctx, r2.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	got, err := repo.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.Equal(t, "perfect", *got.Comment)
}
