package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   ApplicationStatus
		wantOK bool
	}{
		{"Pending", ApplicationStatusPending, true},
		{"selected", ApplicationStatusSelected, true},
		{" REJECTED ", ApplicationStatusRejected, true},
		{"accepted", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseApplicationStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	all := []ApplicationStatus{ApplicationStatusPending, ApplicationStatusSelected, ApplicationStatusRejected}
	allowed := map[[2]ApplicationStatus]bool{
		{ApplicationStatusPending, ApplicationStatusSelected}: true,
		{ApplicationStatusPending, ApplicationStatusRejected}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]ApplicationStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestApplicationStatus_IsTerminal(t *testing.T) {
	assert.False(t, ApplicationStatusPending.IsTerminal())
	assert.True(t, ApplicationStatusSelected.IsTerminal())
	assert.True(t, ApplicationStatusRejected.IsTerminal())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("Student")
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, role)

	role, ok = ParseRole("company")
	assert.True(t, ok)
	assert.Equal(t, RoleCompany, role)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}
