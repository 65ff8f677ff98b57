package gorm

import "time"

type Playlist struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	UserID      uint      `gorm:"column:user_id;not null;index"`
	Name        string    `gorm:"column:name;size:256;not null"`
	Description string    `gorm:"column:description;size:4096"`
	Metadata    string    `gorm:"column:metadata"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Items []PlaylistAnnotation `gorm:"foreignKey:PlaylistID"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistAnnotation references an annotation; it never copies it
type PlaylistAnnotation struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	PlaylistID   uint      `gorm:"column:playlist_id;not null;uniqueIndex:idx_playlist_annotation"`
	AnnotationID uint      `gorm:"column:annotation_id;not null;uniqueIndex:idx_playlist_annotation"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`

	Annotation Annotation `gorm:"foreignKey:AnnotationID"`
}

func (PlaylistAnnotation) TableName() string {
	return "playlist_annotations"
}
