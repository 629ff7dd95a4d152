package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a participant's function within a case.
type Role string

const (
	RoleMediator Role = "mediator"
	RoleDivorcee Role = "divorcee"
	RoleLawyer   Role = "lawyer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMediator, RoleDivorcee, RoleLawyer:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q: must be one of mediator, divorcee, lawyer", s)
	}
	return r, nil
}

// Status is where an attachment sits in the invite/accept handshake.
type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
)

func (s Status) Valid() bool {
	return s == StatusInvited || s == StatusActive
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q: must be one of invited, active", s)
	}
	return st, nil
}

// Participant attaches a user to a case. (CaseID, UserID) is unique.
type Participant struct {
	CaseID    uuid.UUID `db:"case_id" json:"case_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      Role      `db:"role" json:"role"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p Participant) IsActiveMediator() bool {
	return p.Role == RoleMediator && p.Status == StatusActive
}

// Patch holds the optional fields of a participant update.
type Patch struct {
	Role   *Role
	Status *Status
}

func (p Patch) Empty() bool {
	return p.Role == nil && p.Status == nil
}

// ApplyTo returns p applied to a copy of participant.
func (p Patch) ApplyTo(participant Participant) Participant {
	if p.Role != nil {
		participant.Role = *p.Role
	}
	if p.Status != nil {
		participant.Status = *p.Status
	}
	return participant
}

// Find returns the participant for userID in rows.
func Find(rows []Participant, userID uuid.UUID) *Participant {
	for i := range rows {
		if rows[i].UserID == userID {
			p := rows[i]
			return &p
		}
	}
	return nil
}

// CountActiveMediators counts active mediators in rows, skipping exclude.
func CountActiveMediators(rows []Participant, exclude uuid.UUID) int {
	n := 0
	for _, p := range rows {
		if p.UserID == exclude {
			continue
		}
		if p.IsActiveMediator() {
			n++
		}
	}
	return n
}
