package activity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"mediation-api/core/controller"
	"mediation-api/core/database"
	"mediation-api/core/identity/identitytest"
	"mediation-api/core/middleware"
	"mediation-api/core/queue"
	"mediation-api/modules/activity"
	"mediation-api/modules/activity/dto"
	"mediation-api/modules/participant"
	participantEntity "mediation-api/modules/participant/entity"
	participantRepo "mediation-api/modules/participant/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityEndpoint(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &db))

	caseID, mediator, lawyer := uuid.New(), uuid.New(), uuid.New()
	members := participantRepo.NewMemoryRepository()
	members.Seed(
		participantEntity.Participant{CaseID: caseID, UserID: mediator, Role: participantEntity.RoleMediator, Status: participantEntity.StatusActive},
		participantEntity.Participant{CaseID: caseID, UserID: lawyer, Role: participantEntity.RoleLawyer, Status: participantEntity.StatusActive},
	)

	e := echo.New()
	e.HTTPErrorHandler = controller.HTTPErrorHandler
	api := e.Group("/api/v1")
	mw := middleware.NewMiddleware(identitytest.HeaderResolver{})
	participants := participant.Init(api, members, mw, queue.NoopClient{}, "participants")
	activities := activity.Init(api, &db, mw, participants)

	require.NoError(t, activities.Record(context.Background(), &participantEntity.ChangeEvent{
		EventID:    "evt-1",
		CaseID:     caseID,
		UserID:     lawyer,
		ActorID:    mediator,
		Action:     participantEntity.ActionInvited,
		Role:       participantEntity.RoleLawyer,
		Status:     participantEntity.StatusInvited,
		OccurredAt: time.Now().UTC(),
	}))

	get := func(as uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cases/"+caseID.String()+"/activity?page=1&limit=5", nil)
		if as != uuid.Nil {
			identitytest.AsUser(req, as)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := get(mediator)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page dto.PaginatedActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, 5, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, lawyer, page.Items[0].UserID)
	assert.Equal(t, mediator, page.Items[0].ActorID)

	assert.Equal(t, http.StatusForbidden, get(lawyer).Code)
	assert.Equal(t, http.StatusUnauthorized, get(uuid.Nil).Code)
}
