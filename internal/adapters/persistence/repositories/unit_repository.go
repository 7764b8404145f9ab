package repositories

import (
	"context"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/core/domain"

	"gorm.io/gorm"
)

// unitRepository implements UnitRepository
type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

// GetByCode gets a unit by tier and canonical code
func (r *unitRepository) GetByCode(ctx context.Context, tier domain.Tier, code string) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).Where("tier = ? AND code = ?", tier, code).First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListChildCodes lists codes of units one tier down under parentCode
func (r *unitRepository) ListChildCodes(ctx context.Context, tier domain.Tier, parentCode string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("tier = ? AND parent_code = ?", tier, parentCode).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// ExistsCodeOrName checks the joint code+name uniqueness within a tier
func (r *unitRepository) ExistsCodeOrName(ctx context.Context, tier domain.Tier, code, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("tier = ? AND (code = ? OR name = ?)", tier, code, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Update updates a unit
func (r *unitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}
