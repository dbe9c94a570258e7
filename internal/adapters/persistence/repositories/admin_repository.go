package repositories

import (
	"context"

	"ems-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// adminRepository implements AdminRepository interface
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create creates a new admin
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetByID gets an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByPhone gets an admin by phone
func (r *adminRepository) GetByPhone(ctx context.Context, phone string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsByPhone checks if phone is registered
func (r *adminRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

func (r *adminRepository) FindByPhone(ctx context.Context, phone string) (*models.Principal, error) {
	admin, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return admin.ToPrincipal(), nil
}

func (r *adminRepository) CreatePrincipal(ctx context.Context, name, phone, passwordHash string) (*models.Principal, error) {
	admin := &models.Admin{
		Name:     name,
		Phone:    phone,
		Password: passwordHash,
	}
	if err := r.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin.ToPrincipal(), nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}
