package config

import (
	"log"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/password"

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

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedDemoOfficers(); err != nil {
		log.Printf("⚠️ Officer seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrator",
		Username: "admin",
		Email:    "admin@rapidrescue.local",
		Password: hashedPassword,
		Role:     domain.RoleAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedDemoOfficers seeds a few field officers with fixed station coordinates
// so automatic assignment has someone to route to in development.
func (s *Seeder) seedDemoOfficers() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleOfficer).Count(&count)
	if count > 0 {
		return nil // Officers already exist
	}

	hashedPassword, err := password.Hash("officer123456")
	if err != nil {
		return err
	}

	lat1, lon1 := 13.7563, 100.5018
	lat2, lon2 := 13.7248, 100.5340
	lat3, lon3 := 13.8000, 100.5531

	officers := []models.User{
		{
			Name: "Officer Arun", Username: "officer1", Email: "officer1@rapidrescue.local",
			Password: hashedPassword, Role: domain.RoleOfficer,
			Latitude: &lat1, Longitude: &lon1, IsAvailable: true,
		},
		{
			Name: "Officer Boon", Username: "officer2", Email: "officer2@rapidrescue.local",
			Password: hashedPassword, Role: domain.RoleOfficer,
			Latitude: &lat2, Longitude: &lon2, IsAvailable: true,
		},
		{
			Name: "Officer Chai", Username: "officer3", Email: "officer3@rapidrescue.local",
			Password: hashedPassword, Role: domain.RoleOfficer,
			Latitude: &lat3, Longitude: &lon3, IsAvailable: true,
		},
	}

	if err := s.db.Create(&officers).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d demo officers", len(officers))
	return nil
}

// SeedMasterData runs the seeders against the given DB
func SeedMasterData(db *gorm.DB) error {
	return NewSeeder(db).Run()
}
