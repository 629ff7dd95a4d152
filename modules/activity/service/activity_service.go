package service

import (
	"context"
	"time"

	"mediation-api/core/errors"
	"mediation-api/core/logger"
	"mediation-api/core/params"
	"mediation-api/modules/activity/dto"
	"mediation-api/modules/activity/mapper"
	"mediation-api/modules/activity/repository"
	participantEntity "mediation-api/modules/participant/entity"
	"mediation-api/modules/participant/guard"

	"github.com/google/uuid"
)

// Authorizer checks the caller against a case's membership.
type Authorizer interface {
	Authorize(ctx context.Context, caseID uuid.UUID, op guard.Operation) error
}

type ActivityService struct {
	repo       repository.ActivityRepositoryInterface
	authorizer Authorizer
	clock      func() time.Time
}

func NewActivityService(repo repository.ActivityRepositoryInterface, authorizer Authorizer) *ActivityService {
	return &ActivityService{repo: repo, authorizer: authorizer, clock: time.Now}
}

// Record stores a committed participant change. Replays of the same event are
// ignored.
func (s *ActivityService) Record(ctx context.Context, event *participantEntity.ChangeEvent) error {
	if event.EventID == "" || event.CaseID == uuid.Nil {
		return errors.NewAppError(errors.ErrInvalidInput, "event id and case id are required", nil)
	}

	activity := mapper.ToActivityEntity(event)
	activity.ID = uuid.New()
	activity.CreatedAt = s.clock().UTC()

	created, err := s.repo.Create(ctx, activity)
	if err != nil {
		return errors.NewAppError(errors.ErrCreateFailed, "failed to record activity", err)
	}
	if !created {
		logger.Info("ActivityService:Record:Duplicate", "event_id", event.EventID)
		return nil
	}

	logger.Info("ActivityService:Record:Success", "event_id", event.EventID, "case_id", event.CaseID, "action", event.Action)
	return nil
}

func (s *ActivityService) ListByCase(ctx context.Context, caseID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedActivityResponse, error) {
	if err := s.authorizer.Authorize(ctx, caseID, guard.OpViewActivity); err != nil {
		return nil, err
	}

	page, err := s.repo.ListByCase(ctx, caseID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list activity", err)
	}
	return mapper.ToActivityPaginationResponse(page), nil
}
