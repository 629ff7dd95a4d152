package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mediation-api/core/database"
	"mediation-api/core/params"
	"mediation-api/modules/activity/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *ActivityRepository {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &db))
	return NewActivityRepository(&db)
}

func newActivity(caseID uuid.UUID, eventID string, at time.Time) *entity.Activity {
	a := &entity.Activity{
		EventID:    eventID,
		CaseID:     caseID,
		UserID:     uuid.New(),
		ActorID:    uuid.New(),
		Action:     "invited",
		Role:       "lawyer",
		Status:     "invited",
		OccurredAt: at,
	}
	a.ID = uuid.New()
	a.CreatedAt = at
	return a
}

func TestCreateIsIdempotentPerEvent(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	caseID := uuid.New()
	now := time.Now().UTC()

	created, err := repo.Create(ctx, newActivity(caseID, "evt-1", now))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, newActivity(caseID, "evt-1", now))
	require.NoError(t, err)
	assert.False(t, created)

	page, err := repo.ListByCase(ctx, caseID, *params.Normalize(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
}

func TestListByCasePagesNewestFirst(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	caseID := uuid.New()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"evt-a", "evt-b", "evt-c"} {
		_, err := repo.Create(ctx, newActivity(caseID, id, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newActivity(uuid.New(), "evt-other", base))
	require.NoError(t, err)

	first, err := repo.ListByCase(ctx, caseID, *params.Normalize(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalItems)
	assert.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "evt-c", first.Items[0].EventID)
	assert.Equal(t, "evt-b", first.Items[1].EventID)
	assert.True(t, first.Items[0].OccurredAt.Equal(base.Add(2*time.Minute)))

	second, err := repo.ListByCase(ctx, caseID, *params.Normalize(2, 2))
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "evt-a", second.Items[0].EventID)

	empty, err := repo.ListByCase(ctx, uuid.New(), *params.Normalize(1, 2))
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}
