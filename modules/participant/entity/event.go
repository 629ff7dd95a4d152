package entity

import (
	"time"

	"github.com/google/uuid"
)

// Action names a committed participant change.
type Action string

const (
	ActionInvited  Action = "invited"
	ActionAccepted Action = "accepted"
	ActionUpdated  Action = "updated"
	ActionRemoved  Action = "removed"
)

// ChangeEvent is published after a participant mutation commits. It is the
// payload of the participant:changed task.
type ChangeEvent struct {
	EventID    string    `json:"eventId"`
	CaseID     uuid.UUID `json:"caseId"`
	UserID     uuid.UUID `json:"userId"`
	ActorID    uuid.UUID `json:"actorId"`
	Action     Action    `json:"action"`
	Role       Role      `json:"role"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
