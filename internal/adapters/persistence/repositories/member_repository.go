package repositories

import (
	"context"

	"scouthub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// CreateWithHistory creates the member and its first level-history row
// in one transaction
func (r *memberRepository) CreateWithHistory(ctx context.Context, member *models.Member, history *models.MemberLevelHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		history.MemberRowID = member.ID
		return tx.Create(history).Error
	})
}

// GetByID gets a member by row ID
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete soft deletes a member
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Member{}, id).Error
}

// ExistsByMemberID checks if the canonical identifier is taken
func (r *memberRepository) ExistsByMemberID(ctx context.Context, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}

// List lists members within the given troop codes with optional name
// search. A nil code set means unscoped (SystemAdmin).
func (r *memberRepository) List(ctx context.Context, unitCodes []string, search string, offset, limit int) ([]*models.Member, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Member{})
	if unitCodes != nil {
		q = q.Where("unit_code IN ?", unitCodes)
	}
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []*models.Member
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// AppendLevel updates the current level and appends the history entry
// in one transaction
func (r *memberRepository) AppendLevel(ctx context.Context, member *models.Member, history *models.MemberLevelHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(member).Error; err != nil {
			return err
		}
		history.MemberRowID = member.ID
		return tx.Create(history).Error
	})
}

// ListHistory lists a member's level ledger, newest first
func (r *memberRepository) ListHistory(ctx context.Context, memberRowID uint) ([]*models.MemberLevelHistory, error) {
	var entries []*models.MemberLevelHistory
	err := r.db.WithContext(ctx).
		Where("member_row_id = ?", memberRowID).
		Order("effective_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
