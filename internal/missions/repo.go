package missions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/pkg/db/models"
)

// Repository handles mission persistence, including the transactional
// coupling between item writes and the parent total.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to mission operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a mission together with any initial items.
func (r *Repository) Create(ctx context.Context, mission *models.Mission) error {
	if mission == nil {
		return fmt.Errorf("mission is required")
	}
	return r.db.WithContext(ctx).Create(mission).Error
}

// FindByID loads a mission with its items and photos.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	var mission models.Mission
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Photos").
		First(&mission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

// Update saves mission fields only; items and photos go through their own paths.
func (r *Repository) Update(ctx context.Context, mission *models.Mission) error {
	if mission == nil {
		return fmt.Errorf("mission is required")
	}
	return r.db.WithContext(ctx).Omit("Items", "Photos").Save(mission).Error
}

// Delete removes a mission; items and photos follow via FK cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Mission{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every mission with children, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Mission, error) {
	var missions []models.Mission
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Photos").
		Order("mission_date DESC, id DESC").
		Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

// AddItem inserts an expense line and refreshes the parent total in the same
// transaction, so total_spent never drifts from the line totals.
func (r *Repository) AddItem(ctx context.Context, missionID uuid.UUID, item *models.MissionItem) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mission models.Mission
		if err := tx.First(&mission, "id = ?", missionID).Error; err != nil {
			return err
		}
		item.MissionID = missionID
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return syncTotalSpent(tx, missionID)
	})
}

// RemoveItem deletes an expense line and refreshes the parent total in the
// same transaction.
func (r *Repository) RemoveItem(ctx context.Context, missionID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.MissionItem{}, "id = ? AND mission_id = ?", itemID, missionID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return syncTotalSpent(tx, missionID)
	})
}

// AddPhoto stores an uploaded photo record.
func (r *Repository) AddPhoto(ctx context.Context, photo *models.MissionPhoto) error {
	if photo == nil {
		return fmt.Errorf("photo is required")
	}
	return r.db.WithContext(ctx).Create(photo).Error
}

func syncTotalSpent(tx *gorm.DB, missionID uuid.UUID) error {
	var total float64
	if err := tx.Model(&models.MissionItem{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("mission_id = ?", missionID).
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&models.Mission{}).
		Where("id = ?", missionID).
		Update("total_spent", total).Error
}
