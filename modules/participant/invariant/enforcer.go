// Package invariant approves or rejects participant changes that could leave
// a case without an active mediator. It runs inside the write transaction,
// after the case's rows are locked.
package invariant

import (
	"mediation-api/core/errors"
	"mediation-api/core/logger"
	"mediation-api/modules/participant/entity"
)

const (
	MsgLastMediatorRemoved = "cannot remove the last active mediator for this case"
	MsgLastMediatorDemoted = "cannot demote the last active mediator for this case"
)

type Kind int

const (
	KindDemoteOrDeactivate Kind = iota + 1
	KindDelete
)

// Change is a proposed mutation of one participant row. Next is nil for a
// delete.
type Change struct {
	Kind    Kind
	Current entity.Participant
	Next    *entity.Participant
}

func DemoteOrDeactivate(current, next entity.Participant) Change {
	return Change{Kind: KindDemoteOrDeactivate, Current: current, Next: &next}
}

func Delete(current entity.Participant) Change {
	return Change{Kind: KindDelete, Current: current}
}

// RemovesActiveMediator reports whether the change takes an active mediator
// out of the set.
func (c Change) RemovesActiveMediator() bool {
	if !c.Current.IsActiveMediator() {
		return false
	}
	if c.Kind == KindDelete || c.Next == nil {
		return true
	}
	return !c.Next.IsActiveMediator()
}

type Enforcer struct{}

func NewEnforcer() *Enforcer {
	return &Enforcer{}
}

// Admit checks change against rows, which the caller must have read with
// LockCase in the same transaction.
func (e *Enforcer) Admit(rows []entity.Participant, change Change) error {
	err := Evaluate(rows, change)
	if err != nil {
		logger.Warn("Enforcer:Admit:Rejected",
			"case_id", change.Current.CaseID,
			"user_id", change.Current.UserID,
			"kind", change.Kind,
		)
	}
	return err
}

// Evaluate decides change against rows, which must be the case's current
// state.
func Evaluate(rows []entity.Participant, change Change) error {
	if !change.RemovesActiveMediator() {
		return nil
	}
	if entity.CountActiveMediators(rows, change.Current.UserID) > 0 {
		return nil
	}

	msg := MsgLastMediatorDemoted
	if change.Kind == KindDelete {
		msg = MsgLastMediatorRemoved
	}
	return errors.NewAppError(errors.ErrInvariantViolation, msg, nil)
}
