package donations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/internal/stats"
	"github.com/united17/relief-portal/pkg/db/models"
	"github.com/united17/relief-portal/pkg/pagination"
)

// Repository handles donation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to donation operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new donation row.
func (r *Repository) Create(ctx context.Context, donation *models.Donation) error {
	if donation == nil {
		return fmt.Errorf("donation is required")
	}
	return r.db.WithContext(ctx).Create(donation).Error
}

// FindByID loads a donation by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).First(&donation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// Update saves the provided donation.
func (r *Repository) Update(ctx context.Context, donation *models.Donation) error {
	if donation == nil {
		return fmt.Errorf("donation is required")
	}
	return r.db.WithContext(ctx).Save(donation).Error
}

// Delete removes a donation permanently. No soft delete.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Donation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every donation, newest first. The aggregation path works on
// the full set: totals cover all of history, not a page.
func (r *Repository) ListAll(ctx context.Context) ([]models.Donation, error) {
	var donations []models.Donation
	if err := r.db.WithContext(ctx).
		Order("donation_date DESC, id DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// List returns one page of donations matching the filter, newest first.
// The SQL predicates mirror stats.ApplyFilter semantics.
func (r *Repository) List(ctx context.Context, f stats.Filter, limit int, cursor *pagination.Cursor) ([]models.Donation, error) {
	q := r.db.WithContext(ctx).Model(&models.Donation{})
	q = applyFilterQuery(q, f)
	if cursor != nil {
		q = q.Where(
			"donation_date < ? OR (donation_date = ? AND id < ?)",
			cursor.Date, cursor.Date, cursor.ID,
		)
	}

	var donations []models.Donation
	if err := q.Order("donation_date DESC, id DESC").Limit(limit).Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func applyFilterQuery(q *gorm.DB, f stats.Filter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("donation_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("donation_date <= ?", *f.EndDate)
	}
	if constrained(f.SourceCountry) {
		q = q.Where("source_country = ?", f.SourceCountry)
	}
	if constrained(f.Currency) {
		q = q.Where("currency = ?", f.Currency)
	}
	if constrained(f.CollectedBy) {
		q = q.Where("collected_by = ?", f.CollectedBy)
	}
	return q
}

func constrained(value string) bool {
	return value != "" && !strings.EqualFold(value, stats.FilterAll)
}
