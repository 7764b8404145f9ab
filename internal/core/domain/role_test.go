package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierWalks(t *testing.T) {
	child, ok := TierBranch.Child()
	assert.True(t, ok)
	assert.Equal(t, TierSubBranch, child)

	child, ok = TierSubBranch.Child()
	assert.True(t, ok)
	assert.Equal(t, TierTroop, child)

	_, ok = TierTroop.Child()
	assert.False(t, ok, "troop is the leaf")

	parent, ok := TierTroop.Parent()
	assert.True(t, ok)
	assert.Equal(t, TierSubBranch, parent)

	_, ok = TierBranch.Parent()
	assert.False(t, ok, "branch is the root")
}

func TestProvisionTarget(t *testing.T) {
	tests := []struct {
		role Role
		want Tier
		ok   bool
	}{
		{RoleBranch, TierSubBranch, true},
		{RoleSubBranch, TierTroop, true},
		{RoleTroop, "", false},
		{RoleSystemAdmin, "", false},
	}
	for _, tt := range tests {
		got, ok := tt.role.ProvisionTarget()
		assert.Equal(t, tt.ok, ok, string(tt.role))
		assert.Equal(t, tt.want, got, string(tt.role))
	}
}

func TestAdministers(t *testing.T) {
	assert.True(t, RoleBranch.Administers(RoleSubBranch))
	assert.True(t, RoleSubBranch.Administers(RoleTroop))

	assert.False(t, RoleBranch.Administers(RoleTroop), "two tiers down is out of reach")
	assert.False(t, RoleTroop.Administers(RoleTroop))
	assert.False(t, RoleSubBranch.Administers(RoleBranch), "never upward")
	assert.False(t, RoleSystemAdmin.Administers(RoleBranch))
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, RequestPending.Terminal())
	assert.True(t, RequestAccepted.Terminal())
	assert.True(t, RequestRejected.Terminal())
}
