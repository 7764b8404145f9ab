package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/adapters/persistence/repositories"
	"scouthub/internal/core/domain"
	"scouthub/internal/pkg/identifier"
	"scouthub/internal/pkg/validate"

	"gorm.io/gorm"
)

// Member service errors
var (
	ErrMemberNotFound = errors.New("member not found")
)

// MemberService handles member management inside an actor's scope
type MemberService struct {
	memberRepo repositories.MemberRepository
	scope      *ScopeService
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository, scope *ScopeService) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		scope:      scope,
	}
}

// CreateMemberInput represents direct member creation input
type CreateMemberInput struct {
	MemberID   string     `json:"member_id" validate:"required"`
	Name       string     `json:"name" validate:"required,max=100"`
	BirthPlace string     `json:"birth_place,omitempty" validate:"max=100"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Gender     string     `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Address    string     `json:"address,omitempty"`
	Level      string     `json:"level" validate:"required"`
}

// Create registers a member directly under the acting troop, writing
// the member and its first level-history entry in one transaction.
func (s *MemberService) Create(ctx context.Context, actor Actor, input *CreateMemberInput) (*models.Member, error) {
	if actor.Role != domain.RoleTroop {
		return nil, fmt.Errorf("%w: only a troop account may register members", domain.ErrForbidden)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	level, ok := domain.ParseLevel(input.Level)
	if !ok {
		return nil, fmt.Errorf("%w: unknown level %q", domain.ErrInvalidInput, input.Level)
	}

	memberID, err := identifier.CanonicalMemberID(input.MemberID)
	if err != nil {
		return nil, err
	}

	taken, err := s.memberRepo.ExistsByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrMemberIDTaken, memberID)
	}

	member := &models.Member{
		MemberID:       memberID,
		Name:           input.Name,
		BirthPlace:     input.BirthPlace,
		BirthDate:      input.BirthDate,
		Gender:         input.Gender,
		Address:        input.Address,
		Level:          level,
		ActivityStatus: domain.ActivityActive,
		UnitCode:       actor.UnitCode,
	}
	history := &models.MemberLevelHistory{
		Level:         level,
		EffectiveDate: time.Now(),
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	if err := s.memberRepo.CreateWithHistory(txCtx, member, history); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrMemberIDTaken, memberID)
		}
		return nil, err
	}

	return member, nil
}

// GetByID gets a member inside the actor's scope, with level history
func (s *MemberService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Member, error) {
	member, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	history, err := s.memberRepo.ListHistory(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	for _, h := range history {
		member.LevelHistory = append(member.LevelHistory, *h)
	}
	return member, nil
}

// ListMembersInput represents member listing filters
type ListMembersInput struct {
	UnitCode string
	Search   string
	Offset   int
	Limit    int
}

// List lists members in the actor's scope. An explicit unit filter is
// honored only when it falls inside the scope, otherwise ignored.
func (s *MemberService) List(ctx context.Context, actor Actor, input *ListMembersInput) ([]*models.Member, int64, error) {
	scope, err := s.scope.Resolve(ctx, actor.Role, actor.UnitCode)
	if err != nil {
		return nil, 0, err
	}

	return s.memberRepo.List(ctx, scope.Narrow(input.UnitCode).Codes(), input.Search, input.Offset, input.Limit)
}

// UpdateMemberInput represents member edit input
type UpdateMemberInput struct {
	Name           *string    `json:"name,omitempty" validate:"omitempty,max=100"`
	BirthPlace     *string    `json:"birth_place,omitempty" validate:"omitempty,max=100"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         *string    `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Address        *string    `json:"address,omitempty"`
	ActivityStatus *string    `json:"activity_status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// Update edits a member's demographics or activity status
func (s *MemberService) Update(ctx context.Context, actor Actor, id uint, input *UpdateMemberInput) (*models.Member, error) {
	if actor.Role != domain.RoleTroop {
		return nil, fmt.Errorf("%w: only the owning troop may edit members", domain.ErrForbidden)
	}
	member, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.BirthPlace != nil {
		member.BirthPlace = *input.BirthPlace
	}
	if input.BirthDate != nil {
		member.BirthDate = input.BirthDate
	}
	if input.Gender != nil {
		member.Gender = *input.Gender
	}
	if input.Address != nil {
		member.Address = *input.Address
	}
	if input.ActivityStatus != nil {
		member.ActivityStatus = domain.ActivityStatus(*input.ActivityStatus)
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ChangeLevelInput represents a level-change request
type ChangeLevelInput struct {
	Level         string     `json:"level" validate:"required"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

// ChangeLevel appends an entry to the member's level ledger and moves
// the current level, in one transaction.
func (s *MemberService) ChangeLevel(ctx context.Context, actor Actor, id uint, input *ChangeLevelInput) (*models.Member, error) {
	if actor.Role != domain.RoleTroop {
		return nil, fmt.Errorf("%w: only the owning troop may change levels", domain.ErrForbidden)
	}
	member, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	level, ok := domain.ParseLevel(input.Level)
	if !ok {
		return nil, fmt.Errorf("%w: unknown level %q", domain.ErrInvalidInput, input.Level)
	}

	effective := time.Now()
	if input.EffectiveDate != nil {
		effective = *input.EffectiveDate
	}

	member.Level = level
	history := &models.MemberLevelHistory{
		Level:         level,
		EffectiveDate: effective,
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	if err := s.memberRepo.AppendLevel(txCtx, member, history); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a member owned by the acting troop
func (s *MemberService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.Role != domain.RoleTroop {
		return fmt.Errorf("%w: only the owning troop may remove members", domain.ErrForbidden)
	}
	member, err := s.scoped(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, member.ID)
}

// scoped fetches a member and checks it sits inside the actor's scope
func (s *MemberService) scoped(ctx context.Context, actor Actor, id uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	scope, err := s.scope.Resolve(ctx, actor.Role, actor.UnitCode)
	if err != nil {
		return nil, err
	}
	if !scope.Contains(member.UnitCode) {
		return nil, fmt.Errorf("%w: member outside your units", domain.ErrForbidden)
	}
	return member, nil
}
