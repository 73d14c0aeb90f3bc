package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/united17/relief-portal/pkg/enums"
)

// MissionPhoto is an evidence image stored in the photo bucket and owned by
// its mission (removed with it).
type MissionPhoto struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MissionID    uuid.UUID       `gorm:"column:mission_id;type:uuid;not null;index"`
	PhotoType    enums.PhotoType `gorm:"column:photo_type;not null"`
	PhotoURL     string          `gorm:"column:photo_url;not null"`
	LinkedItemID *uuid.UUID      `gorm:"column:linked_item_id;type:uuid"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
