package dto

import (
	"time"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	ID         uuid.UUID `json:"id"`
	CaseID     uuid.UUID `json:"caseId"`
	UserID     uuid.UUID `json:"userId"`
	ActorID    uuid.UUID `json:"actorId"`
	Action     string    `json:"action"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

type PaginatedActivityResponse struct {
	Items      []ActivityResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPages int                `json:"totalPages"`
	PageNumber int                `json:"pageNumber"`
	PageSize   int                `json:"pageSize"`
}
