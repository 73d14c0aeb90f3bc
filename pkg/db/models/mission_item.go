package models

import (
	"time"

	"github.com/google/uuid"
)

// MissionItem is one purchased line on a mission. total_price is always
// quantity x unit_price, recomputed server-side on write.
type MissionItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MissionID  uuid.UUID `gorm:"column:mission_id;type:uuid;not null;index"`
	ItemName   string    `gorm:"column:item_name;not null"`
	Quantity   float64   `gorm:"column:quantity;type:numeric(12,3);not null"`
	UnitPrice  float64   `gorm:"column:unit_price;type:numeric(14,2);not null"`
	TotalPrice float64   `gorm:"column:total_price;type:numeric(14,2);not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
