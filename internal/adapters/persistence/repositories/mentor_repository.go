package repositories

import (
	"context"

	"scouthub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// mentorRepository implements MentorRepository
type mentorRepository struct {
	db *gorm.DB
}

// NewMentorRepository creates a new mentor repository
func NewMentorRepository(db *gorm.DB) MentorRepository {
	return &mentorRepository{db: db}
}

// Create creates a new mentor
func (r *mentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	return r.db.WithContext(ctx).Create(mentor).Error
}

// GetByID gets a mentor by row ID
func (r *mentorRepository) GetByID(ctx context.Context, id uint) (*models.Mentor, error) {
	var mentor models.Mentor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&mentor).Error
	if err != nil {
		return nil, err
	}
	return &mentor, nil
}

// Delete soft deletes a mentor
func (r *mentorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Mentor{}, id).Error
}

// ExistsByMemberID checks if the canonical identifier is taken among mentors
func (r *mentorRepository) ExistsByMemberID(ctx context.Context, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Mentor{}).Where("member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}

// List lists mentors within the given troop codes with optional name
// search. A nil code set means unscoped (SystemAdmin).
func (r *mentorRepository) List(ctx context.Context, unitCodes []string, search string, offset, limit int) ([]*models.Mentor, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Mentor{})
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

	var mentors []*models.Mentor
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&mentors).Error; err != nil {
		return nil, 0, err
	}

	return mentors, total, nil
}
