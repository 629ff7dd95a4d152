package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"mediation-api/core/constants"
	"mediation-api/core/errors"
	"mediation-api/core/identity"
	"mediation-api/core/logger"
	"mediation-api/core/queue"
	"mediation-api/core/utils"
	"mediation-api/modules/participant/entity"
	"mediation-api/modules/participant/guard"
	"mediation-api/modules/participant/invariant"
	"mediation-api/modules/participant/repository"

	"github.com/google/uuid"
)

const (
	msgNoInvitation        = "no invitation found for this user in this case"
	msgParticipantNotFound = "participant not found"
)

// ParticipantService authorizes the caller against a snapshot of the case,
// then runs the mutation as one locked store transaction in which the target
// and the invariant are checked before the write. Change events are published
// after commit.
type ParticipantService struct {
	repo      repository.ParticipantRepositoryInterface
	enforcer  *invariant.Enforcer
	publisher queue.Client
	queueName string
	clock     func() time.Time
}

func NewParticipantService(repo repository.ParticipantRepositoryInterface, enforcer *invariant.Enforcer, publisher queue.Client, queueName string) *ParticipantService {
	if enforcer == nil {
		enforcer = invariant.NewEnforcer()
	}
	if publisher == nil {
		publisher = queue.NoopClient{}
	}
	if queueName == "" {
		queueName = constants.DefaultQueueName
	}
	return &ParticipantService{
		repo:      repo,
		enforcer:  enforcer,
		publisher: publisher,
		queueName: queueName,
		clock:     time.Now,
	}
}

func (s *ParticipantService) List(ctx context.Context, caseID uuid.UUID) ([]entity.Participant, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(caller, nil, guard.OpList, uuid.Nil); err != nil {
		return nil, err
	}

	participants, err := s.repo.List(ctx, caseID)
	if err != nil {
		logger.Error("ParticipantService:List:Error", "case_id", caseID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list participants", err)
	}
	return participants, nil
}

// Authorize checks op for the caller against the case's current rows. It is
// used by read surfaces outside this module.
func (s *ParticipantService) Authorize(ctx context.Context, caseID uuid.UUID, op guard.Operation) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	return s.authorize(ctx, caseID, caller, op, uuid.Nil)
}

func (s *ParticipantService) authorize(ctx context.Context, caseID uuid.UUID, caller *identity.Caller, op guard.Operation, subject uuid.UUID) error {
	rows, err := s.repo.List(ctx, caseID)
	if err != nil {
		logger.Error("ParticipantService:Authorize:List", "case_id", caseID, "error", err)
		return errors.NewAppError(errors.ErrGetFailed, "failed to load participants", err)
	}
	return guard.Authorize(caller, entity.Find(rows, caller.UserID), op, subject)
}

// reauthorize repeats the role check on the locked rows, since the caller may
// have lost mediator rights after the snapshot was read.
func reauthorize(rows []entity.Participant, caller *identity.Caller, op guard.Operation, subject uuid.UUID) error {
	return guard.Authorize(caller, entity.Find(rows, caller.UserID), op, subject)
}

func (s *ParticipantService) Invite(ctx context.Context, caseID, userID uuid.UUID, role entity.Role) (*entity.Participant, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "role must be one of mediator, divorcee, lawyer", nil)
	}
	if userID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "userId is required", nil)
	}
	if err := s.authorize(ctx, caseID, caller, guard.OpInvite, userID); err != nil {
		return nil, err
	}

	var invited *entity.Participant
	err = s.repo.WithTx(ctx, caseID, func(tx repository.ParticipantTx) error {
		rows, err := tx.LockCase(ctx)
		if err != nil {
			return err
		}

		// Re-inviting resets status to invited, which demotes an active mediator.
		if existing := entity.Find(rows, userID); existing != nil {
			next := *existing
			next.Role = role
			next.Status = entity.StatusInvited
			if err := s.enforcer.Admit(rows, invariant.DemoteOrDeactivate(*existing, next)); err != nil {
				return err
			}
		}
		if err := reauthorize(rows, caller, guard.OpInvite, userID); err != nil {
			return err
		}

		invited, err = tx.UpsertInvite(ctx, userID, role)
		return err
	})
	if err != nil {
		return nil, s.fail("Invite", caseID, userID, err, errors.ErrCreateFailed, "failed to invite participant")
	}

	logger.Info("ParticipantService:Invite:Success", "case_id", caseID, "user_id", userID, "role", role)
	s.publish(ctx, caller.UserID, entity.ActionInvited, invited)
	return invited, nil
}

// Accept moves the caller's own invitation to active. Accepting an already
// active attachment returns it unchanged.
func (s *ParticipantService) Accept(ctx context.Context, caseID, userID uuid.UUID) (*entity.Participant, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(caller, nil, guard.OpAccept, userID); err != nil {
		return nil, err
	}

	var (
		accepted *entity.Participant
		changed  bool
	)
	err = s.repo.WithTx(ctx, caseID, func(tx repository.ParticipantTx) error {
		rows, err := tx.LockCase(ctx)
		if err != nil {
			return err
		}

		current := entity.Find(rows, userID)
		if current == nil {
			return errors.NewAppError(errors.ErrNotFound, msgNoInvitation, nil)
		}
		if current.Status == entity.StatusActive {
			accepted = current
			return nil
		}

		accepted, err = tx.SetActive(ctx, userID)
		changed = err == nil
		return err
	})
	if err != nil {
		return nil, s.fail("Accept", caseID, userID, err, errors.ErrUpdateFailed, "failed to accept invitation")
	}

	if changed {
		logger.Info("ParticipantService:Accept:Success", "case_id", caseID, "user_id", userID)
		s.publish(ctx, caller.UserID, entity.ActionAccepted, accepted)
	}
	return accepted, nil
}

func (s *ParticipantService) Patch(ctx context.Context, caseID, userID uuid.UUID, patch entity.Patch) (*entity.Participant, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caseID, caller, guard.OpPatch, userID); err != nil {
		return nil, err
	}

	var updated *entity.Participant
	err = s.repo.WithTx(ctx, caseID, func(tx repository.ParticipantTx) error {
		rows, err := tx.LockCase(ctx)
		if err != nil {
			return err
		}

		current := entity.Find(rows, userID)
		if current == nil {
			return errors.NewAppError(errors.ErrNotFound, msgParticipantNotFound, nil)
		}
		if err := s.enforcer.Admit(rows, invariant.DemoteOrDeactivate(*current, patch.ApplyTo(*current))); err != nil {
			return err
		}
		if err := reauthorize(rows, caller, guard.OpPatch, userID); err != nil {
			return err
		}

		updated, err = tx.ApplyPatch(ctx, userID, patch)
		return err
	})
	if err != nil {
		return nil, s.fail("Patch", caseID, userID, err, errors.ErrUpdateFailed, "failed to update participant")
	}

	logger.Info("ParticipantService:Patch:Success", "case_id", caseID, "user_id", userID, "role", updated.Role, "status", updated.Status)
	s.publish(ctx, caller.UserID, entity.ActionUpdated, updated)
	return updated, nil
}

func (s *ParticipantService) Delete(ctx context.Context, caseID, userID uuid.UUID) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caseID, caller, guard.OpDelete, userID); err != nil {
		return err
	}

	var removed entity.Participant
	err = s.repo.WithTx(ctx, caseID, func(tx repository.ParticipantTx) error {
		rows, err := tx.LockCase(ctx)
		if err != nil {
			return err
		}

		current := entity.Find(rows, userID)
		if current == nil {
			return errors.NewAppError(errors.ErrNotFound, msgParticipantNotFound, nil)
		}
		if err := s.enforcer.Admit(rows, invariant.Delete(*current)); err != nil {
			return err
		}
		if err := reauthorize(rows, caller, guard.OpDelete, userID); err != nil {
			return err
		}

		ok, err := tx.Remove(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrNotFound
		}
		removed = *current
		return nil
	})
	if err != nil {
		return s.fail("Delete", caseID, userID, err, errors.ErrDeleteFailed, "failed to remove participant")
	}

	logger.Info("ParticipantService:Delete:Success", "case_id", caseID, "user_id", userID)
	s.publish(ctx, caller.UserID, entity.ActionRemoved, &removed)
	return nil
}

// Bootstrap makes userID the first active mediator of a case that has none.
// It runs without a caller and is reachable only from the operator CLI.
func (s *ParticipantService) Bootstrap(ctx context.Context, caseID, userID uuid.UUID) (*entity.Participant, error) {
	if userID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "userId is required", nil)
	}

	var mediator *entity.Participant
	err := s.repo.WithTx(ctx, caseID, func(tx repository.ParticipantTx) error {
		rows, err := tx.LockCase(ctx)
		if err != nil {
			return err
		}
		if entity.CountActiveMediators(rows, uuid.Nil) > 0 {
			return errors.NewAppError(errors.ErrAlreadyExists, "case already has an active mediator", nil)
		}

		if _, err := tx.UpsertInvite(ctx, userID, entity.RoleMediator); err != nil {
			return err
		}
		mediator, err = tx.SetActive(ctx, userID)
		return err
	})
	if err != nil {
		return nil, s.fail("Bootstrap", caseID, userID, err, errors.ErrCreateFailed, "failed to bootstrap case")
	}

	logger.Info("ParticipantService:Bootstrap:Success", "case_id", caseID, "user_id", userID)
	s.publish(ctx, userID, entity.ActionAccepted, mediator)
	return mediator, nil
}

func (s *ParticipantService) caller(ctx context.Context) (*identity.Caller, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "authentication required", nil)
	}
	return caller, nil
}

func validatePatch(patch entity.Patch) error {
	if patch.Empty() {
		return errors.NewAppError(errors.ErrInvalidInput, "at least one of role or status must be provided", nil)
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return errors.NewAppError(errors.ErrInvalidInput, "role must be one of mediator, divorcee, lawyer", nil)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return errors.NewAppError(errors.ErrInvalidInput, "status must be one of invited, active", nil)
	}
	return nil
}

// fail passes AppErrors through and wraps anything else as code.
func (s *ParticipantService) fail(op string, caseID, userID uuid.UUID, err error, code errors.ErrorCode, msg string) error {
	if appErr, ok := errors.As(err); ok {
		logger.Warn("ParticipantService:"+op+":Rejected", "case_id", caseID, "user_id", userID, "code", appErr.Code, "message", appErr.Message)
		return appErr
	}
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewAppError(errors.ErrNotFound, msgParticipantNotFound, err)
	}

	logger.Error("ParticipantService:"+op+":Error", "case_id", caseID, "user_id", userID, "error", err)
	return errors.NewAppError(code, msg, err)
}

func (s *ParticipantService) publish(ctx context.Context, actorID uuid.UUID, action entity.Action, p *entity.Participant) {
	if p == nil {
		return
	}

	event := entity.ChangeEvent{
		EventID:    utils.GenerateID(),
		CaseID:     p.CaseID,
		UserID:     p.UserID,
		ActorID:    actorID,
		Action:     action,
		Role:       p.Role,
		Status:     p.Status,
		OccurredAt: s.clock().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("ParticipantService:Publish:Marshal", "error", err)
		return
	}

	_, err = s.publisher.Enqueue(context.WithoutCancel(ctx), queue.Task{
		Type:    constants.TaskTypeParticipantChanged,
		Payload: payload,
	}, queue.EnqueueOption{
		Queue:    s.queueName,
		MaxRetry: constants.TaskMaxRetry,
		TaskID:   event.EventID,
	})
	if err != nil {
		logger.Error("ParticipantService:Publish:Enqueue", "event_id", event.EventID, "case_id", event.CaseID, "error", err)
	}
}
