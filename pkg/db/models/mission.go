package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Mission is a discrete relief operation with its own expense breakdown and
// photographic evidence. total_spent stays consistent with the item line totals
// because every item write recomputes it in the same transaction.
type Mission struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	District         string         `gorm:"column:district;not null"`
	Area             string         `gorm:"column:area;not null"`
	TotalSpent       float64        `gorm:"column:total_spent;type:numeric(14,2);not null"`
	MissionDate      time.Time      `gorm:"column:mission_date;type:date;not null;index"`
	Remarks          *string        `gorm:"column:remarks"`
	VolunteersCount  int            `gorm:"column:volunteers_count;not null;default:0"`
	VolunteerNames   pq.StringArray `gorm:"column:volunteer_names;type:text[]"`
	DriveLink        *string        `gorm:"column:drive_link"`
	FeaturedImageURL *string        `gorm:"column:featured_image_url"`
	CreatedBy        string         `gorm:"column:created_by;not null"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	Items  []MissionItem  `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE"`
	Photos []MissionPhoto `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE"`
}
