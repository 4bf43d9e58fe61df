package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

func TestRepository_AppendAndPage(t *testing.T) {
	db := storagetest.New(t)
	repo := NewRepository(db, db.Builder)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.AuditEntry{
			ActorID: 1, Action: domain.AuditCreate, Entity: "service", EntityID: ptr.Ptr(i),
			Details: json.RawMessage(`{"name":"Gel"}`),
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.AuditEntry{ActorID: 2, Action: domain.AuditUpdate, Entity: "settings"}))

	page, err := repo.List(ctx, domain.AuditFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "settings", page[0].Entity)
	assert.Nil(t, page[0].Details)
	assert.Nil(t, page[0].EntityID)

	services, err := repo.List(ctx, domain.AuditFilter{Entity: ptr.Ptr("service"), Offset: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, services, 4)
	assert.Equal(t, int64(4), *services[0].EntityID)
	assert.JSONEq(t, `{"name":"Gel"}`, string(services[0].Details))

	byActor, err := repo.List(ctx, domain.AuditFilter{ActorID: ptr.Ptr(int64(2))})
	require.NoError(t, err)
	assert.Len(t, byActor, 1)
}
