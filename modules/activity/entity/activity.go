package entity

import (
	"time"

	"mediation-api/core/entity"

	"github.com/google/uuid"
)

// Activity is one audited participant change of a case.
type Activity struct {
	entity.BaseEntity
	EventID    string    `db:"event_id" json:"event_id"`
	CaseID     uuid.UUID `db:"case_id" json:"case_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	ActorID    uuid.UUID `db:"actor_id" json:"actor_id"`
	Action     string    `db:"action" json:"action"`
	Role       string    `db:"role" json:"role"`
	Status     string    `db:"status" json:"status"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

type PaginatedActivityEntity = entity.Pagination[Activity]
