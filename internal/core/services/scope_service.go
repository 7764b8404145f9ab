package services

import (
	"context"
	"errors"
	"fmt"

	"scouthub/internal/adapters/persistence/repositories"
	"scouthub/internal/core/domain"

	"gorm.io/gorm"
)

// Scope errors
var (
	ErrHomeUnitNotFound = errors.New("actor's home unit not found")
	ErrUnscopedRole     = errors.New("role has no unit scope")
)

// Scope is the set of troop codes an actor may read and write. A
// SystemAdmin scope is unrestricted and carries no code set.
type Scope struct {
	All        bool
	TroopCodes []string
}

// Contains reports whether a troop code falls inside the scope
func (s Scope) Contains(code string) bool {
	if s.All {
		return true
	}
	for _, c := range s.TroopCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Narrow applies an explicit unit filter to the scope. An out-of-scope
// filter is ignored and the full scope kept; this widening fallback is
// deliberate, matching the established behavior of the list endpoints.
func (s Scope) Narrow(code string) Scope {
	if code == "" || !s.Contains(code) {
		return s
	}
	return Scope{TroopCodes: []string{code}}
}

// Codes returns the troop code set for repository filters, nil when
// unrestricted.
func (s Scope) Codes() []string {
	if s.All {
		return nil
	}
	return s.TroopCodes
}

// ScopeService resolves an actor's organizational subtree
type ScopeService struct {
	unitRepo repositories.UnitRepository
}

// NewScopeService creates a new scope service
func NewScopeService(unitRepo repositories.UnitRepository) *ScopeService {
	return &ScopeService{unitRepo: unitRepo}
}

// Resolve computes the troop codes an actor is authorized over by
// walking the tier tree down from the actor's home unit, one hop per
// tier, until the troop tier is reached. A missing home unit fails with
// a not-found error; callers must reject the whole request rather than
// fall through to an empty scope.
func (s *ScopeService) Resolve(ctx context.Context, role domain.Role, unitCode string) (Scope, error) {
	if role == domain.RoleSystemAdmin {
		return Scope{All: true}, nil
	}

	tier, ok := role.Tier()
	if !ok {
		return Scope{}, fmt.Errorf("%w: %s", ErrUnscopedRole, role)
	}
	if unitCode == "" {
		return Scope{}, ErrHomeUnitNotFound
	}

	if _, err := s.unitRepo.GetByCode(ctx, tier, unitCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Scope{}, ErrHomeUnitNotFound
		}
		return Scope{}, err
	}

	codes := []string{unitCode}
	for tier != domain.TierTroop {
		child, _ := tier.Child()

		// next stays non-nil even when no children exist: a nil code set
		// means unscoped to the repositories, an empty one means nothing.
		next := []string{}
		for _, code := range codes {
			childCodes, err := s.unitRepo.ListChildCodes(ctx, child, code)
			if err != nil {
				return Scope{}, err
			}
			next = append(next, childCodes...)
		}

		codes = next
		tier = child
	}

	return Scope{TroopCodes: codes}, nil
}

// ResolveBranchCode walks upward from a troop to its owning branch
// (Troop -> SubBranch -> Branch), returning the branch code.
func (s *ScopeService) ResolveBranchCode(ctx context.Context, troopCode string) (string, error) {
	tier := domain.TierTroop
	code := troopCode

	for tier != domain.TierBranch {
		unit, err := s.unitRepo.GetByCode(ctx, tier, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("%w: %s unit %s", domain.ErrNotFound, tier, code)
			}
			return "", err
		}

		parent, _ := tier.Parent()
		tier = parent
		code = unit.ParentCode
	}

	return code, nil
}
