package charges

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/pkg/db/models"
)

// Repository handles additional charge persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to charge operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new charge row.
func (r *Repository) Create(ctx context.Context, charge *models.AdditionalCharge) error {
	if charge == nil {
		return fmt.Errorf("charge is required")
	}
	return r.db.WithContext(ctx).Create(charge).Error
}

// Delete removes a charge permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AdditionalCharge{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every charge, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.AdditionalCharge, error) {
	var charges []models.AdditionalCharge
	if err := r.db.WithContext(ctx).
		Order("charge_date DESC, id DESC").
		Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}
