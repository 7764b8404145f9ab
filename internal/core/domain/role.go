package domain

// Tier represents one level of the organizational tree.
// The tree is fixed: Branch -> SubBranch -> Troop.
type Tier string

const (
	TierBranch    Tier = "BRANCH"
	TierSubBranch Tier = "SUB_BRANCH"
	TierTroop     Tier = "TROOP"
)

// Parent returns the tier directly above t, or false for the root.
func (t Tier) Parent() (Tier, bool) {
	switch t {
	case TierTroop:
		return TierSubBranch, true
	case TierSubBranch:
		return TierBranch, true
	default:
		return "", false
	}
}

// Child returns the tier directly below t, or false for the leaf.
func (t Tier) Child() (Tier, bool) {
	switch t {
	case TierBranch:
		return TierSubBranch, true
	case TierSubBranch:
		return TierTroop, true
	default:
		return "", false
	}
}

// Role represents an account role in the system
type Role string

const (
	RoleBranch      Role = "BRANCH"
	RoleSubBranch   Role = "SUB_BRANCH"
	RoleTroop       Role = "TROOP"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// ParseRole validates a raw role string
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleBranch, RoleSubBranch, RoleTroop, RoleSystemAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// Tier returns the organizational tier a role administers.
// SystemAdmin has no tier of its own.
func (r Role) Tier() (Tier, bool) {
	switch r {
	case RoleBranch:
		return TierBranch, true
	case RoleSubBranch:
		return TierSubBranch, true
	case RoleTroop:
		return TierTroop, true
	default:
		return "", false
	}
}

// RoleForTier returns the role that administers a tier
func RoleForTier(t Tier) Role {
	switch t {
	case TierBranch:
		return RoleBranch
	case TierSubBranch:
		return RoleSubBranch
	default:
		return RoleTroop
	}
}

// ProvisionTarget returns the tier an actor role may create accounts for.
// Branch provisions SubBranch, SubBranch provisions Troop; nobody else
// provisions anything.
func (r Role) ProvisionTarget() (Tier, bool) {
	tier, ok := r.Tier()
	if !ok {
		return "", false
	}
	return tier.Child()
}

// Administers reports whether r is exactly one tier above target,
// the descent rule for editing and deleting subordinate accounts.
func (r Role) Administers(target Role) bool {
	actorTier, ok := r.Tier()
	if !ok {
		return false
	}
	targetTier, ok := target.Tier()
	if !ok {
		return false
	}
	child, ok := actorTier.Child()
	return ok && child == targetTier
}
