package gorm

import "time"

// Annotation is a tagged comment on an interval of a session recording
type Annotation struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	SessionID string    `gorm:"column:session_id;size:64;not null;index"`
	CreatorID uint      `gorm:"column:creator_id;not null"`
	Content   string    `gorm:"column:content;size:1024;not null"`
	Start     int       `gorm:"column:start_interval;not null"`
	End       int       `gorm:"column:end_interval;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Creator User   `gorm:"foreignKey:CreatorID"`
	Codes   []Code `gorm:"many2many:annotation_codes"`
}

func (Annotation) TableName() string {
	return "annotations"
}

// Comment hangs off an annotation directly (ParentID nil) or off another comment
type Comment struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	AnnotationID uint      `gorm:"column:annotation_id;not null;index"`
	ParentID     *uint     `gorm:"column:parent_id;index"`
	CreatorID    uint      `gorm:"column:creator_id;not null"`
	Content      string    `gorm:"column:content;size:1024;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Creator User `gorm:"foreignKey:CreatorID"`
}

func (Comment) TableName() string {
	return "comments"
}
