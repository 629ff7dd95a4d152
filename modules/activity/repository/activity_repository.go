package repository

import (
	"context"

	"mediation-api/core/database"
	"mediation-api/core/entity"
	"mediation-api/core/logger"
	"mediation-api/core/params"
	activityEntity "mediation-api/modules/activity/entity"

	"github.com/google/uuid"
)

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *activityEntity.Activity) (bool, error)
	ListByCase(ctx context.Context, caseID uuid.UUID, params params.QueryParams) (*activityEntity.PaginatedActivityEntity, error)
}

type ActivityRepository struct {
	db database.IDatabase
}

var _ ActivityRepositoryInterface = (*ActivityRepository)(nil)

func NewActivityRepository(db database.IDatabase) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create stores activity once per event id. It reports false when the event
// was already recorded.
func (r *ActivityRepository) Create(ctx context.Context, activity *activityEntity.Activity) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO participant_activity (id, event_id, case_id, user_id, actor_id, action, role, status, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING
	`)

	res, err := r.db.SQLx().ExecContext(ctx, query,
		activity.ID, activity.EventID, activity.CaseID, activity.UserID, activity.ActorID,
		activity.Action, activity.Role, activity.Status, activity.OccurredAt, activity.CreatedAt,
	)
	if err != nil {
		logger.Error("ActivityRepository:Create:Error", "event_id", activity.EventID, "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ActivityRepository) ListByCase(ctx context.Context, caseID uuid.UUID, params params.QueryParams) (*activityEntity.PaginatedActivityEntity, error) {
	baseQuery := `FROM participant_activity WHERE case_id = ?`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, r.db.Rebind("SELECT COUNT(*) "+baseQuery), caseID); err != nil {
		logger.Error("ActivityRepository:ListByCase:Count:Error", "case_id", caseID, "error", err)
		return nil, err
	}

	query := r.db.Rebind(`
		SELECT id, event_id, case_id, user_id, actor_id, action, role, status, occurred_at, created_at
		` + baseQuery + `
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT ? OFFSET ?
	`)

	var activities []activityEntity.Activity
	if err := r.db.SelectContext(ctx, &activities, query, caseID, params.PageSize, params.Offset()); err != nil {
		logger.Error("ActivityRepository:ListByCase:Select:Error", "case_id", caseID, "error", err)
		return nil, err
	}

	return entity.NewPagination(activities, totalItems, params.PageNumber, params.PageSize), nil
}
