package repositories

import (
	"context"

	"scouthub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// accountRepository implements AccountRepository
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// CreateWithUnit creates the account and its unit in one transaction
func (r *accountRepository) CreateWithUnit(ctx context.Context, account *models.Account, unit *models.Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(unit).Error; err != nil {
			return err
		}
		account.UnitID = &unit.ID
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		account.Unit = unit
		return nil
	})
}

// GetByID gets an account by ID with its unit preloaded
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Preload("Unit").Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByUsername gets an account by username with its unit preloaded
func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Preload("Unit").Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ExistsByUsername checks if username exists
func (r *accountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ListByCreator lists accounts provisioned by creatorID with pagination
func (r *accountRepository) ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]*models.Account, int64, error) {
	var accounts []*models.Account
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Account{}).Where("created_by_id = ?", creatorID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Unit").
		Where("created_by_id = ?", creatorID).
		Offset(offset).Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// UpdateWithUnit saves the account and its unit in one transaction
func (r *accountRepository) UpdateWithUnit(ctx context.Context, account *models.Account, unit *models.Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if unit != nil {
			if err := tx.Save(unit).Error; err != nil {
				return err
			}
		}
		return tx.Save(account).Error
	})
}

// DeleteWithUnit deletes the account, cascading its unit, in one transaction
func (r *accountRepository) DeleteWithUnit(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if account.UnitID != nil {
			if err := tx.Delete(&models.Unit{}, *account.UnitID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Account{}, account.ID).Error
	})
}
