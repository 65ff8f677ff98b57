package repositories

import (
	"context"

	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// AnnotationRepository exposes explicit active/all variants instead of a
// global soft-delete filter
type AnnotationRepository struct {
	db *gorm.DB
}

func NewAnnotationRepository(db *gorm.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

func (r *AnnotationRepository) WithTx(tx *gorm.DB) *AnnotationRepository {
	return &AnnotationRepository{db: tx}
}

func (r *AnnotationRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Creator").Preload("Codes")
}

// GetByID returns the annotation even when it was soft-deleted
func (r *AnnotationRepository) GetByID(ctx context.Context, id uint) (*gormModels.Annotation, error) {
	var a gormModels.Annotation
	if err := r.withRelations(ctx).First(&a, id).Error; err != nil {
		return nil, wrap(err, "fetch annotation")
	}
	return &a, nil
}

// GetActiveByID returns ErrNotFound for soft-deleted annotations
func (r *AnnotationRepository) GetActiveByID(ctx context.Context, id uint) (*gormModels.Annotation, error) {
	var a gormModels.Annotation
	err := r.withRelations(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&a).Error
	if err != nil {
		return nil, wrap(err, "fetch annotation")
	}
	return &a, nil
}

// ListActiveBySession orders annotations by position in the recording
func (r *AnnotationRepository) ListActiveBySession(ctx context.Context, sessionID string) ([]gormModels.Annotation, error) {
	var annotations []gormModels.Annotation
	err := r.withRelations(ctx).
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Order("start_interval ASC, id ASC").
		Find(&annotations).Error
	if err != nil {
		return nil, wrap(err, "list annotations")
	}
	return annotations, nil
}

// ListAllBySession includes soft-deleted annotations
func (r *AnnotationRepository) ListAllBySession(ctx context.Context, sessionID string) ([]gormModels.Annotation, error) {
	var annotations []gormModels.Annotation
	err := r.withRelations(ctx).
		Where("session_id = ?", sessionID).
		Order("start_interval ASC, id ASC").
		Find(&annotations).Error
	if err != nil {
		return nil, wrap(err, "list annotations")
	}
	return annotations, nil
}

// ListAllByIDs returns annotations for the ids, deleted ones included
func (r *AnnotationRepository) ListAllByIDs(ctx context.Context, ids []uint) ([]gormModels.Annotation, error) {
	var annotations []gormModels.Annotation
	if len(ids) == 0 {
		return annotations, nil
	}
	err := r.withRelations(ctx).Where("id IN ?", ids).Find(&annotations).Error
	if err != nil {
		return nil, wrap(err, "fetch annotations")
	}
	return annotations, nil
}

// Create inserts the annotation and links its codes
func (r *AnnotationRepository) Create(ctx context.Context, a *gormModels.Annotation) error {
	err := r.db.WithContext(ctx).Omit("Creator", "Codes.*").Create(a).Error
	return wrap(err, "create annotation")
}

// Update saves content and interval
func (r *AnnotationRepository) Update(ctx context.Context, a *gormModels.Annotation) error {
	err := r.db.WithContext(ctx).
		Model(a).
		Select("content", "start_interval", "end_interval").
		Updates(a).Error
	return wrap(err, "update annotation")
}

// ReplaceCodes swaps the whole tag set of the annotation
func (r *AnnotationRepository) ReplaceCodes(ctx context.Context, a *gormModels.Annotation, codes []gormModels.Code) error {
	err := r.db.WithContext(ctx).Model(a).Association("Codes").Replace(codes)
	if err != nil {
		return wrap(err, "replace annotation codes")
	}
	a.Codes = codes
	return nil
}

func (r *AnnotationRepository) SoftDelete(ctx context.Context, a *gormModels.Annotation) error {
	a.IsActive = false
	err := r.db.WithContext(ctx).
		Model(a).
		Select("is_active").
		Updates(a).Error
	return wrap(err, "delete annotation")
}
