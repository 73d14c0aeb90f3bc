package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/pkg/db/models"
)

// Repository reads and writes admin credential rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to admin operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUsername loads the admin with the exact username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an admin by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// TouchLastLogin records a successful login timestamp.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// CreateIfAbsent inserts the admin unless the username is already taken.
// Returns true when a row was inserted.
func (r *Repository) CreateIfAbsent(ctx context.Context, admin *models.Admin) (bool, error) {
	if admin == nil {
		return false, fmt.Errorf("admin is required")
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("username = ?", admin.Username).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
