package task

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"mediation-api/core/constants"
	"mediation-api/core/database"
	"mediation-api/core/params"
	"mediation-api/core/queue"
	"mediation-api/modules/activity/repository"
	"mediation-api/modules/activity/service"
	participantEntity "mediation-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	handlers map[string]queue.Handler
}

func (s *fakeServer) Register(taskType string, h queue.Handler) {
	s.handlers[taskType] = h
}

func (s *fakeServer) Run(context.Context) error { return nil }

func setup(t *testing.T) (queue.Handler, *repository.ActivityRepository) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &db))

	repo := repository.NewActivityRepository(&db)
	srv := &fakeServer{handlers: map[string]queue.Handler{}}
	NewHandler(service.NewActivityService(repo, nil)).Register(srv)

	h, ok := srv.handlers[constants.TaskTypeParticipantChanged]
	require.True(t, ok)
	return h, repo
}

func TestHandleParticipantChangedRecordsOnce(t *testing.T) {
	h, repo := setup(t)
	caseID := uuid.New()
	payload, err := json.Marshal(participantEntity.ChangeEvent{
		EventID:    "evt-42",
		CaseID:     caseID,
		UserID:     uuid.New(),
		ActorID:    uuid.New(),
		Action:     participantEntity.ActionAccepted,
		Role:       participantEntity.RoleLawyer,
		Status:     participantEntity.StatusActive,
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	task := queue.Task{Type: constants.TaskTypeParticipantChanged, Payload: payload}

	require.NoError(t, h(context.Background(), task))
	require.NoError(t, h(context.Background(), task))

	page, err := repo.ListByCase(context.Background(), caseID, *params.Normalize(1, 10))
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, "accepted", page.Items[0].Action)
	assert.Equal(t, "active", page.Items[0].Status)
}

func TestHandleParticipantChangedSkipsBadPayloads(t *testing.T) {
	h, _ := setup(t)

	err := h(context.Background(), queue.Task{Type: constants.TaskTypeParticipantChanged, Payload: []byte("{")})
	assert.ErrorIs(t, err, queue.ErrSkipRetry)

	err = h(context.Background(), queue.Task{Type: constants.TaskTypeParticipantChanged, Payload: []byte(`{"eventId":""}`)})
	assert.ErrorIs(t, err, queue.ErrSkipRetry)
}
