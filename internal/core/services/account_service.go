package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/adapters/persistence/repositories"
	"scouthub/internal/adapters/storage"
	"scouthub/internal/core/domain"
	"scouthub/internal/pkg/identifier"
	"scouthub/internal/pkg/password"
	"scouthub/internal/pkg/validate"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Account service errors
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrUnitTaken         = errors.New("unit code or name already taken")
	ErrCannotProvision   = errors.New("role may not provision accounts")
	ErrNotAccountCreator = errors.New("only the creating account may do this")
	ErrBadUsername       = errors.New("username must not contain whitespace")
)

// allowed photo content types for unit profiles
var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// AccountService provisions and manages subordinate accounts
type AccountService struct {
	accountRepo repositories.AccountRepository
	unitRepo    repositories.UnitRepository
	store       ObjectStore
	log         *logrus.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	unitRepo repositories.UnitRepository,
	store ObjectStore,
	log *logrus.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		unitRepo:    unitRepo,
		store:       store,
		log:         log,
	}
}

// CreateAccountInput represents provisioning input
type CreateAccountInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	UnitCode string `json:"unit_code" validate:"required"`
	UnitName string `json:"unit_name" validate:"required,max=100"`
	Address  string `json:"address,omitempty"`
}

// Create provisions an account exactly one tier below the actor,
// creating the account and its organizational unit in one transaction.
func (s *AccountService) Create(ctx context.Context, actor Actor, input *CreateAccountInput) (*models.Account, error) {
	targetTier, ok := actor.Role.ProvisionTarget()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCannotProvision, actor.Role)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if strings.ContainsAny(input.Username, " \t\n") {
		return nil, ErrBadUsername
	}

	code, err := identifier.CanonicalUnitCode(targetTier, input.UnitCode)
	if err != nil {
		return nil, err
	}

	taken, err := s.accountRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	// joint uniqueness: reject when either the code or the name is held
	// by another unit of the target tier
	taken, err = s.unitRepo.ExistsCodeOrName(ctx, targetTier, code, input.UnitName, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUnitTaken
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	unit := &models.Unit{
		Tier:       targetTier,
		Code:       code,
		Name:       input.UnitName,
		ParentCode: actor.UnitCode,
		Address:    input.Address,
	}
	creatorID := actor.AccountID
	account := &models.Account{
		Username:    input.Username,
		Password:    hash,
		Role:        domain.RoleForTier(targetTier),
		CreatedByID: &creatorID,
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	if err := s.accountRepo.CreateWithUnit(txCtx, account, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUnitTaken
		}
		return nil, err
	}

	return account, nil
}

// UpdateAccountInput represents subordinate-account edit input
type UpdateAccountInput struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	UnitCode *string `json:"unit_code,omitempty"`
	UnitName *string `json:"unit_name,omitempty" validate:"omitempty,max=100"`
	Address  *string `json:"address,omitempty"`
	Photo    *Upload `json:"-"`
}

// Update edits a subordinate account. Both conditions of the descent
// rule must hold: the actor created the account, and the account sits
// exactly one tier below the actor.
func (s *AccountService) Update(ctx context.Context, actor Actor, id uint, input *UpdateAccountInput) (*models.Account, error) {
	account, err := s.subordinate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != account.Username {
		if strings.ContainsAny(*input.Username, " \t\n") {
			return nil, ErrBadUsername
		}
		taken, err := s.accountRepo.ExistsByUsername(ctx, *input.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		account.Username = *input.Username
	}

	if input.Password != nil {
		hash, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		account.Password = hash
	}

	unit := account.Unit
	unitChanged := false
	if unit != nil {
		code, name := unit.Code, unit.Name
		if input.UnitCode != nil {
			code, err = identifier.CanonicalUnitCode(unit.Tier, *input.UnitCode)
			if err != nil {
				return nil, err
			}
		}
		if input.UnitName != nil {
			name = *input.UnitName
		}

		if code != unit.Code || name != unit.Name {
			taken, err := s.unitRepo.ExistsCodeOrName(ctx, unit.Tier, code, name, unit.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUnitTaken
			}
			unit.Code = code
			unit.Name = name
			unitChanged = true
		}
		if input.Address != nil {
			unit.Address = *input.Address
			unitChanged = true
		}
		if input.Photo != nil {
			if !photoTypes[strings.ToLower(input.Photo.ContentType)] {
				return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, input.Photo.ContentType)
			}
			// replacement order: old artifact out first, best-effort
			if unit.PhotoPath != "" {
				if err := s.store.Delete(ctx, unit.PhotoPath); err != nil {
					s.log.WithError(err).WithField("path", unit.PhotoPath).
						Warn("failed to delete replaced unit photo")
				}
			}
			path := storage.ObjectPath(storage.NamespacePhotos, input.Photo.Filename)
			if _, err := s.store.Put(ctx, path, input.Photo.Data, input.Photo.ContentType); err != nil {
				return nil, fmt.Errorf("%w: photo upload failed: %v", domain.ErrInternalServer, err)
			}
			unit.PhotoPath = path
			unitChanged = true
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	if !unitChanged {
		unit = nil
	}
	if err := s.accountRepo.UpdateWithUnit(txCtx, account, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUnitTaken
		}
		return nil, err
	}

	return account, nil
}

// Delete removes a subordinate account, cascading its unit. The unit
// photo is removed best-effort first.
func (s *AccountService) Delete(ctx context.Context, actor Actor, id uint) error {
	account, err := s.subordinate(ctx, actor, id)
	if err != nil {
		return err
	}

	if account.Unit != nil && account.Unit.PhotoPath != "" {
		if err := s.store.Delete(ctx, account.Unit.PhotoPath); err != nil {
			s.log.WithError(err).WithField("path", account.Unit.PhotoPath).
				Warn("failed to delete unit photo of removed account")
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	return s.accountRepo.DeleteWithUnit(txCtx, account)
}

// List lists the accounts the actor has provisioned
func (s *AccountService) List(ctx context.Context, actor Actor, offset, limit int) ([]*models.AccountResponse, int64, error) {
	accounts, total, err := s.accountRepo.ListByCreator(ctx, actor.AccountID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = a.ToResponse()
	}
	return out, total, nil
}

// subordinate fetches an account and enforces the edit/delete rule:
// creator AND exactly one tier down. Creator alone is not enough.
func (s *AccountService) subordinate(ctx context.Context, actor Actor, id uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if account.CreatedByID == nil || *account.CreatedByID != actor.AccountID {
		return nil, ErrNotAccountCreator
	}
	if !actor.Role.Administers(account.Role) {
		return nil, fmt.Errorf("%w: account is not one tier below %s", domain.ErrForbidden, actor.Role)
	}
	return account, nil
}
