package dto

import (
	"time"

	"github.com/google/uuid"
)

type InviteRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=mediator divorcee lawyer"`
}

// PatchRequest carries the optional fields of an update. At least one must
// be present.
type PatchRequest struct {
	Role   *string `json:"role" validate:"omitempty,oneof=mediator divorcee lawyer"`
	Status *string `json:"status" validate:"omitempty,oneof=invited active"`
}

type ParticipantResponse struct {
	CaseID    uuid.UUID `json:"caseId"`
	UserID    uuid.UUID `json:"userId"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
