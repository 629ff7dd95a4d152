package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Mediator ")
	require.NoError(t, err)
	assert.Equal(t, RoleMediator, r)

	_, err = ParseRole("judge")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	_, err = ParseStatus("declined")
	assert.Error(t, err)
}

func TestPatchApplyTo(t *testing.T) {
	p := Participant{Role: RoleMediator, Status: StatusActive}
	divorcee := RoleDivorcee

	got := Patch{Role: &divorcee}.ApplyTo(p)
	assert.Equal(t, RoleDivorcee, got.Role)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, RoleMediator, p.Role, "original must be untouched")

	assert.True(t, Patch{}.Empty())
	assert.False(t, Patch{Role: &divorcee}.Empty())
}

func TestCountActiveMediators(t *testing.T) {
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	rows := []Participant{
		{UserID: alice, Role: RoleMediator, Status: StatusActive},
		{UserID: bob, Role: RoleMediator, Status: StatusInvited},
		{UserID: carol, Role: RoleLawyer, Status: StatusActive},
	}

	assert.Equal(t, 1, CountActiveMediators(rows, uuid.Nil))
	assert.Equal(t, 0, CountActiveMediators(rows, alice))
	require.NotNil(t, Find(rows, bob))
	assert.Equal(t, StatusInvited, Find(rows, bob).Status)
	assert.Nil(t, Find(rows, uuid.New()))
}
