package repositories

import (
	"context"

	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) WithTx(tx *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: tx}
}

func (r *PlaylistRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("playlist_annotations.id ASC") }).
		Preload("Items.Annotation").
		Preload("Items.Annotation.Creator").
		Preload("Items.Annotation.Codes")
}

// GetActiveByID returns ErrNotFound for soft-deleted playlists
func (r *PlaylistRepository) GetActiveByID(ctx context.Context, id uint) (*gormModels.Playlist, error) {
	var p gormModels.Playlist
	err := r.withItems(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		return nil, wrap(err, "fetch playlist")
	}
	return &p, nil
}

// ListActiveByUser returns the user's own playlists, newest first
func (r *PlaylistRepository) ListActiveByUser(ctx context.Context, userID uint) ([]gormModels.Playlist, error) {
	var playlists []gormModels.Playlist
	err := r.withItems(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, wrap(err, "list playlists")
	}
	return playlists, nil
}

func (r *PlaylistRepository) Create(ctx context.Context, p *gormModels.Playlist) error {
	return wrap(r.db.WithContext(ctx).Omit("Items").Create(p).Error, "create playlist")
}

func (r *PlaylistRepository) Update(ctx context.Context, p *gormModels.Playlist) error {
	err := r.db.WithContext(ctx).
		Model(p).
		Select("name", "description", "metadata").
		Updates(p).Error
	return wrap(err, "update playlist")
}

func (r *PlaylistRepository) SoftDelete(ctx context.Context, p *gormModels.Playlist) error {
	p.IsActive = false
	err := r.db.WithContext(ctx).
		Model(p).
		Select("is_active").
		Updates(p).Error
	return wrap(err, "delete playlist")
}

// AddItems links annotations to the playlist
func (r *PlaylistRepository) AddItems(ctx context.Context, playlistID uint, annotationIDs []uint) error {
	if len(annotationIDs) == 0 {
		return nil
	}
	items := make([]gormModels.PlaylistAnnotation, 0, len(annotationIDs))
	for _, id := range annotationIDs {
		items = append(items, gormModels.PlaylistAnnotation{PlaylistID: playlistID, AnnotationID: id})
	}
	return wrap(r.db.WithContext(ctx).Omit("Annotation").Create(&items).Error, "add playlist items")
}

// RemoveItems unlinks annotations; the annotations themselves are untouched
func (r *PlaylistRepository) RemoveItems(ctx context.Context, playlistID uint, annotationIDs []uint) error {
	if len(annotationIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND annotation_id IN ?", playlistID, annotationIDs).
		Delete(&gormModels.PlaylistAnnotation{}).Error
	return wrap(err, "remove playlist items")
}

// ListItems returns the link rows in insertion order
func (r *PlaylistRepository) ListItems(ctx context.Context, playlistID uint) ([]gormModels.PlaylistAnnotation, error) {
	var items []gormModels.PlaylistAnnotation
	err := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, wrap(err, "list playlist items")
	}
	return items, nil
}
