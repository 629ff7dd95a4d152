// Package guard holds the participant authorization policy. It is pure: the
// caller and the caller's row in the case are read by the service and passed
// in.
package guard

import (
	"mediation-api/core/errors"
	"mediation-api/core/identity"
	"mediation-api/modules/participant/entity"

	"github.com/google/uuid"
)

type Operation string

const (
	OpList         Operation = "list"
	OpInvite       Operation = "invite"
	OpAccept       Operation = "accept"
	OpPatch        Operation = "patch"
	OpDelete       Operation = "delete"
	OpViewActivity Operation = "viewActivity"
)

var mediatorOnly = map[Operation]string{
	OpInvite:       "only active mediators can invite participants",
	OpPatch:        "only active mediators can update participants",
	OpDelete:       "only active mediators can remove participants",
	OpViewActivity: "only active mediators can view case activity",
}

// Authorize decides whether caller may perform op on subject. callerRow is
// the caller's participant row in the case, or nil.
func Authorize(caller *identity.Caller, callerRow *entity.Participant, op Operation, subject uuid.UUID) error {
	if caller == nil || caller.UserID == uuid.Nil {
		return errors.NewAppError(errors.ErrUnauthorized, "authentication required", nil)
	}

	switch op {
	case OpList:
		return nil
	case OpAccept:
		if subject != caller.UserID {
			return errors.NewAppError(errors.ErrForbidden, "participants can only accept their own invitation", nil)
		}
		return nil
	}

	msg, ok := mediatorOnly[op]
	if !ok {
		return errors.NewAppError(errors.ErrForbidden, "operation not permitted", nil)
	}
	if callerRow == nil || !callerRow.IsActiveMediator() {
		return errors.NewAppError(errors.ErrForbidden, msg, nil)
	}
	return nil
}
