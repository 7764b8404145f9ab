package repositories

import (
	"context"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/core/domain"

	"gorm.io/gorm"
)

// requestRepository implements RequestRepository
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new membership-request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create creates a new membership request
func (r *requestRepository) Create(ctx context.Context, req *models.MembershipRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID gets a request by ID
func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.MembershipRequest, error) {
	var req models.MembershipRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Update updates a request
func (r *requestRepository) Update(ctx context.Context, req *models.MembershipRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// Delete soft deletes a request
func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MembershipRequest{}, id).Error
}

// ListByUnitCodes lists requests whose owning troop is in unitCodes.
// A nil code set means unscoped (SystemAdmin).
func (r *requestRepository) ListByUnitCodes(ctx context.Context, unitCodes []string, status *domain.RequestStatus, offset, limit int) ([]*models.MembershipRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.MembershipRequest{})
	if unitCodes != nil {
		q = q.Where("unit_code IN ?", unitCodes)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	return r.list(q, offset, limit)
}

// ListByTargetBranch lists requests addressed to a branch
func (r *requestRepository) ListByTargetBranch(ctx context.Context, branchCode string, status *domain.RequestStatus, offset, limit int) ([]*models.MembershipRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.MembershipRequest{}).Where("target_branch_code = ?", branchCode)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	return r.list(q, offset, limit)
}

func (r *requestRepository) list(q *gorm.DB, offset, limit int) ([]*models.MembershipRequest, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []*models.MembershipRequest
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// Accept runs the atomic accept transaction: member insert, initial
// level-history insert, request flip. The count check inside the
// transaction catches known duplicates early; the unique index on
// members.member_id is what actually decides concurrent races, surfacing
// as gorm.ErrDuplicatedKey.
func (r *requestRepository) Accept(ctx context.Context, req *models.MembershipRequest, member *models.Member, history *models.MemberLevelHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Member{}).Where("member_id = ?", member.MemberID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}

		if err := tx.Create(member).Error; err != nil {
			return err
		}

		history.MemberRowID = member.ID
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		return tx.Save(req).Error
	})
}
