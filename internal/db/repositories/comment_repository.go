package repositories

import (
	"context"

	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

// GetByID returns the comment even when it was soft-deleted
func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*gormModels.Comment, error) {
	var c gormModels.Comment
	if err := r.db.WithContext(ctx).Preload("Creator").First(&c, id).Error; err != nil {
		return nil, wrap(err, "fetch comment")
	}
	return &c, nil
}

// ListAllByAnnotation returns every comment of the annotation, deleted ones
// included, so the tree keeps its shape
func (r *CommentRepository) ListAllByAnnotation(ctx context.Context, annotationID uint) ([]gormModels.Comment, error) {
	var comments []gormModels.Comment
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("annotation_id = ?", annotationID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, wrap(err, "list comments")
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *gormModels.Comment) error {
	return wrap(r.db.WithContext(ctx).Omit("Creator").Create(c).Error, "create comment")
}

func (r *CommentRepository) SoftDelete(ctx context.Context, c *gormModels.Comment) error {
	c.IsActive = false
	err := r.db.WithContext(ctx).
		Model(c).
		Select("is_active").
		Updates(c).Error
	return wrap(err, "delete comment")
}
