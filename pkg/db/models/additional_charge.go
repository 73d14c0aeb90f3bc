package models

import (
	"time"

	"github.com/google/uuid"
)

// AdditionalCharge is an expense not attributable to any single mission.
type AdditionalCharge struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Description string    `gorm:"column:description;not null"`
	Amount      float64   `gorm:"column:amount;type:numeric(14,2);not null"`
	ChargeDate  time.Time `gorm:"column:charge_date;type:date;not null;index"`
	CreatedBy   string    `gorm:"column:created_by;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
