package models

import (
	"time"

	"github.com/google/uuid"
)

// Donation is a single recorded contribution. Amounts arrive pre-converted:
// amount is the native-currency figure, amount_lkr the LKR equivalent at
// recording time. The aggregation core never converts currencies itself.
type Donation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SourceCountry string    `gorm:"column:source_country;not null;index"`
	CountryName   *string   `gorm:"column:country_name"`
	Currency      string    `gorm:"column:currency;not null"`
	Amount        float64   `gorm:"column:amount;type:numeric(14,2);not null"`
	AmountLKR     float64   `gorm:"column:amount_lkr;type:numeric(14,2);not null"`
	DonorName     *string   `gorm:"column:donor_name"`
	DonationDate  time.Time `gorm:"column:donation_date;type:date;not null;index"`
	CollectedBy   string    `gorm:"column:collected_by;not null;index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
