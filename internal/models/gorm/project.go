package gorm

import "time"

type Project struct {
	ID              uint      `gorm:"column:id;primaryKey"`
	Title           string    `gorm:"column:title;size:256;not null"`
	Slug            string    `gorm:"column:slug;uniqueIndex;size:256;not null"`
	Description     string    `gorm:"column:description;size:4096"`
	IsPublic        bool      `gorm:"column:is_public;default:false"`
	CreatorID       uint      `gorm:"column:creator_id;not null"`
	IsActive        bool      `gorm:"column:is_active;default:true"`
	ConsentRequired bool      `gorm:"column:consent_required"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Creator User     `gorm:"foreignKey:CreatorID"`
	Prompts []Prompt `gorm:"foreignKey:ProjectID"`
	Codes   []Code   `gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// Prompt is a discussion topic of a project
type Prompt struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	ProjectID uint      `gorm:"column:project_id;not null;index"`
	CreatorID uint      `gorm:"column:creator_id;not null"`
	Text      string    `gorm:"column:text;size:1024;not null"`
	ImageURL  *string   `gorm:"column:image_url"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Prompt) TableName() string {
	return "prompts"
}

// Code is a codebook tag used to label annotations
type Code struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	ProjectID uint      `gorm:"column:project_id;not null;index"`
	Name      string    `gorm:"column:name;size:256;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Code) TableName() string {
	return "codes"
}
