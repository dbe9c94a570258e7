package config

import (
	"context"
	"errors"
	"log"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/adapters/persistence/repositories"
	"ems-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	adminRepo repositories.AdminRepository
	cfg       SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(adminRepo repositories.AdminRepository, cfg SeedConfig) *Seeder {
	return &Seeder{adminRepo: adminRepo, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdmin(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdmin creates the configured bootstrap admin once
func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminPhone == "" || s.cfg.AdminPassword == "" {
		log.Println("⚠️ Skipping admin seed: SEED_ADMIN_PHONE/SEED_ADMIN_PASSWORD not set")
		return nil
	}

	_, err := s.adminRepo.GetByPhone(ctx, s.cfg.AdminPhone)
	if err == nil {
		return nil // Admin already exists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if !password.ValidatePassword(s.cfg.AdminPassword) {
		return errors.New("SEED_ADMIN_PASSWORD must be at least 6 characters")
	}
	if password.TooLong(s.cfg.AdminPassword) {
		return errors.New("SEED_ADMIN_PASSWORD must be at most 72 bytes")
	}

	hashedPassword, err := password.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Name:     s.cfg.AdminName,
		Phone:    s.cfg.AdminPhone,
		Password: hashedPassword,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Phone)
	return nil
}
