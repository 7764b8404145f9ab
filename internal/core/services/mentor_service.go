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

// Mentor service errors
var (
	ErrMentorNotFound = errors.New("mentor not found")
	ErrMentorIDTaken  = errors.New("mentor identifier already registered")
)

// MentorService handles mentor management inside an actor's scope
type MentorService struct {
	mentorRepo repositories.MentorRepository
	scope      *ScopeService
}

// NewMentorService creates a new mentor service
func NewMentorService(mentorRepo repositories.MentorRepository, scope *ScopeService) *MentorService {
	return &MentorService{
		mentorRepo: mentorRepo,
		scope:      scope,
	}
}

// CreateMentorInput represents mentor registration input
type CreateMentorInput struct {
	MemberID   string     `json:"member_id" validate:"required"`
	Name       string     `json:"name" validate:"required,max=100"`
	BirthPlace string     `json:"birth_place,omitempty" validate:"max=100"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Gender     string     `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Address    string     `json:"address,omitempty"`
}

// Create registers a mentor under the acting troop. The identifier is
// unique among mentors only; a member may carry the same one.
func (s *MentorService) Create(ctx context.Context, actor Actor, input *CreateMentorInput) (*models.Mentor, error) {
	if actor.Role != domain.RoleTroop {
		return nil, fmt.Errorf("%w: only a troop account may register mentors", domain.ErrForbidden)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	memberID, err := identifier.CanonicalMemberID(input.MemberID)
	if err != nil {
		return nil, err
	}

	taken, err := s.mentorRepo.ExistsByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrMentorIDTaken, memberID)
	}

	mentor := &models.Mentor{
		MemberID:   memberID,
		Name:       input.Name,
		BirthPlace: input.BirthPlace,
		BirthDate:  input.BirthDate,
		Gender:     input.Gender,
		Address:    input.Address,
		UnitCode:   actor.UnitCode,
	}
	if err := s.mentorRepo.Create(ctx, mentor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrMentorIDTaken, memberID)
		}
		return nil, err
	}
	return mentor, nil
}

// GetByID gets a mentor inside the actor's scope
func (s *MentorService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Mentor, error) {
	return s.scoped(ctx, actor, id)
}

// ListMentorsInput represents mentor listing filters
type ListMentorsInput struct {
	UnitCode string
	Search   string
	Offset   int
	Limit    int
}

// List lists mentors in the actor's scope
func (s *MentorService) List(ctx context.Context, actor Actor, input *ListMentorsInput) ([]*models.Mentor, int64, error) {
	scope, err := s.scope.Resolve(ctx, actor.Role, actor.UnitCode)
	if err != nil {
		return nil, 0, err
	}
	return s.mentorRepo.List(ctx, scope.Narrow(input.UnitCode).Codes(), input.Search, input.Offset, input.Limit)
}

// Delete removes a mentor owned by the acting troop
func (s *MentorService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.Role != domain.RoleTroop {
		return fmt.Errorf("%w: only the owning troop may remove mentors", domain.ErrForbidden)
	}
	mentor, err := s.scoped(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.mentorRepo.Delete(ctx, mentor.ID)
}

func (s *MentorService) scoped(ctx context.Context, actor Actor, id uint) (*models.Mentor, error) {
	mentor, err := s.mentorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}

	scope, err := s.scope.Resolve(ctx, actor.Role, actor.UnitCode)
	if err != nil {
		return nil, err
	}
	if !scope.Contains(mentor.UnitCode) {
		return nil, fmt.Errorf("%w: mentor outside your units", domain.ErrForbidden)
	}
	return mentor, nil
}
