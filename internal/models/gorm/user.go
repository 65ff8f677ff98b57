package gorm

import (
	"time"

	"gabber/annotator/internal/constants"
)

type User struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;size:254;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Fullname     string    `gorm:"column:fullname;size:256"`
	Registered   bool      `gorm:"column:registered;default:false"`
	Verified     bool      `gorm:"column:verified;default:false"`
	DeviceToken  *string   `gorm:"column:device_token"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Memberships []Membership `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Membership is the (user, project, role) relation. Rows are never overwritten:
// leaving and rejoining creates a new row, so history is kept.
type Membership struct {
	ID              uint           `gorm:"column:id;primaryKey"`
	UserID          uint           `gorm:"column:user_id;not null;index;uniqueIndex:idx_membership_active,where:deactivated = false"`
	ProjectID       uint           `gorm:"column:project_id;not null;index;uniqueIndex:idx_membership_active,where:deactivated = false"`
	Role            constants.Role `gorm:"column:role;size:16;not null"`
	Confirmed       bool           `gorm:"column:confirmed;default:false"`
	Deactivated     bool           `gorm:"column:deactivated;default:false"`
	InviteSentAt    *time.Time     `gorm:"column:invite_sent_at"`
	StatusChangedAt time.Time      `gorm:"column:status_changed_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID"`
	Project Project `gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for GORM
func (Membership) TableName() string {
	return "memberships"
}

// IsActive is true for confirmed memberships that were not left or revoked
func (m *Membership) IsActive() bool {
	return m.Confirmed && !m.Deactivated
}
