package repositories

import (
	"context"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/core/domain"
)

// UnitRepository defines organizational-unit persistence
type UnitRepository interface {
	GetByCode(ctx context.Context, tier domain.Tier, code string) (*models.Unit, error)
	// ListChildCodes returns the codes of every unit of tier whose
	// parent_code equals parentCode.
	ListChildCodes(ctx context.Context, tier domain.Tier, parentCode string) ([]string, error)
	// ExistsCodeOrName reports whether another unit of the tier already
	// holds the code or the name. excludeID skips the unit's own row
	// during edits; pass 0 on create.
	ExistsCodeOrName(ctx context.Context, tier domain.Tier, code, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, unit *models.Unit) error
}

// AccountRepository defines user-account persistence. Creation and
// deletion are atomic with the account's organizational unit.
type AccountRepository interface {
	CreateWithUnit(ctx context.Context, account *models.Account, unit *models.Unit) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]*models.Account, int64, error)
	UpdateWithUnit(ctx context.Context, account *models.Account, unit *models.Unit) error
	DeleteWithUnit(ctx context.Context, account *models.Account) error
}

// RequestRepository defines membership-request persistence
type RequestRepository interface {
	Create(ctx context.Context, req *models.MembershipRequest) error
	GetByID(ctx context.Context, id uint) (*models.MembershipRequest, error)
	Update(ctx context.Context, req *models.MembershipRequest) error
	Delete(ctx context.Context, id uint) error
	ListByUnitCodes(ctx context.Context, unitCodes []string, status *domain.RequestStatus, offset, limit int) ([]*models.MembershipRequest, int64, error)
	ListByTargetBranch(ctx context.Context, branchCode string, status *domain.RequestStatus, offset, limit int) ([]*models.MembershipRequest, int64, error)
	// Accept flips the request to Accepted and creates the member plus
	// its first level-history row in one transaction. A duplicate
	// canonical member identifier fails the whole transaction with
	// gorm.ErrDuplicatedKey.
	Accept(ctx context.Context, req *models.MembershipRequest, member *models.Member, history *models.MemberLevelHistory) error
}

// MemberRepository defines member persistence
type MemberRepository interface {
	// CreateWithHistory creates the member and its initial level-history
	// row in one transaction.
	CreateWithHistory(ctx context.Context, member *models.Member, history *models.MemberLevelHistory) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	ExistsByMemberID(ctx context.Context, memberID string) (bool, error)
	List(ctx context.Context, unitCodes []string, search string, offset, limit int) ([]*models.Member, int64, error)
	// AppendLevel updates the member's current level and appends the
	// history entry in one transaction.
	AppendLevel(ctx context.Context, member *models.Member, history *models.MemberLevelHistory) error
	ListHistory(ctx context.Context, memberRowID uint) ([]*models.MemberLevelHistory, error)
}

// MentorRepository defines mentor persistence
type MentorRepository interface {
	Create(ctx context.Context, mentor *models.Mentor) error
	GetByID(ctx context.Context, id uint) (*models.Mentor, error)
	Delete(ctx context.Context, id uint) error
	ExistsByMemberID(ctx context.Context, memberID string) (bool, error)
	List(ctx context.Context, unitCodes []string, search string, offset, limit int) ([]*models.Mentor, int64, error)
}
