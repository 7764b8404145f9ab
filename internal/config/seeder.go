package config

import (
	"log"
	"os"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/core/domain"
	"scouthub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSystemAdmin(); err != nil {
		log.Printf("⚠️ System admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSystemAdmin bootstraps the first system administrator. Every
// other account is provisioned down the hierarchy from here.
func (s *Seeder) seedSystemAdmin() error {
	var count int64
	s.db.Model(&models.Account{}).Where("role = ?", domain.RoleSystemAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	username := os.Getenv("BOOTSTRAP_ADMIN_USERNAME")
	plain := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if username == "" || plain == "" {
		log.Println("⚠️ Skipping system admin seed: BOOTSTRAP_ADMIN_USERNAME/PASSWORD not set")
		return nil
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.Account{
		Username: username,
		Password: hashed,
		Role:     domain.RoleSystemAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ System admin created: %s", admin.Username)
	return nil
}
