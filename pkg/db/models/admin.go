package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/united17/relief-portal/pkg/enums"
)

// Admin is a collector account. Credentials live here (argon2id hashes) rather
// than in a hardcoded table; rows are created by the migrate tool's seed command.
type Admin struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string          `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.AdminRole `gorm:"column:role;not null;default:'collector'"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
