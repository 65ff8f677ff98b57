package repositories

import (
	"context"

	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// ProjectRepository manages projects, their prompts and codebook
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

// GetByID returns the project regardless of its soft-delete flag
func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*gormModels.Project, error) {
	var project gormModels.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		return nil, wrap(err, "fetch project")
	}
	return &project, nil
}

// GetActiveByID returns an active project with its active prompts and codes
func (r *ProjectRepository) GetActiveByID(ctx context.Context, id uint) (*gormModels.Project, error) {
	var project gormModels.Project
	err := r.db.WithContext(ctx).
		Preload("Prompts", "is_active = ?", true).
		Preload("Codes", "is_active = ?", true).
		Preload("Creator").
		Where("id = ? AND is_active = ?", id, true).
		First(&project).Error
	if err != nil {
		return nil, wrap(err, "fetch project")
	}
	return &project, nil
}

// SlugExists checks every project, deleted ones included, since slugs are never reused
func (r *ProjectRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Project{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, wrap(err, "check slug")
	}
	return count > 0, nil
}

// ListActiveVisible lists active projects that are public or where userID holds
// a confirmed, active membership. userID 0 means anonymous.
func (r *ProjectRepository) ListActiveVisible(ctx context.Context, userID uint) ([]gormModels.Project, error) {
	var projects []gormModels.Project

	q := r.db.WithContext(ctx).
		Preload("Prompts", "is_active = ?", true).
		Preload("Codes", "is_active = ?", true).
		Preload("Creator").
		Where("is_active = ?", true)

	if userID == 0 {
		q = q.Where("is_public = ?", true)
	} else {
		member := r.db.Model(&gormModels.Membership{}).
			Select("project_id").
			Where("user_id = ? AND confirmed = ? AND deactivated = ?", userID, true, false)
		q = q.Where("is_public = ? OR id IN (?)", true, member)
	}

	if err := q.Order("id DESC").Find(&projects).Error; err != nil {
		return nil, wrap(err, "list projects")
	}
	return projects, nil
}

// Create inserts the project together with any prompts and codes set on it
func (r *ProjectRepository) Create(ctx context.Context, project *gormModels.Project) error {
	return wrap(r.db.WithContext(ctx).Create(project).Error, "create project")
}

// Update saves scalar columns only; associations are managed explicitly
func (r *ProjectRepository) Update(ctx context.Context, project *gormModels.Project) error {
	err := r.db.WithContext(ctx).
		Model(project).
		Select("title", "description", "is_public", "is_active", "consent_required").
		Updates(project).Error
	return wrap(err, "update project")
}

// ListCodes returns the active codebook
func (r *ProjectRepository) ListCodes(ctx context.Context, projectID uint) ([]gormModels.Code, error) {
	var codes []gormModels.Code
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Order("id ASC").
		Find(&codes).Error
	if err != nil {
		return nil, wrap(err, "list codes")
	}
	return codes, nil
}

// GetCodes returns the active codes among ids that belong to projectID
func (r *ProjectRepository) GetCodes(ctx context.Context, projectID uint, ids []uint) ([]gormModels.Code, error) {
	var codes []gormModels.Code
	if len(ids) == 0 {
		return codes, nil
	}
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_active = ? AND id IN ?", projectID, true, ids).
		Find(&codes).Error
	if err != nil {
		return nil, wrap(err, "fetch codes")
	}
	return codes, nil
}

func (r *ProjectRepository) CreateCode(ctx context.Context, code *gormModels.Code) error {
	return wrap(r.db.WithContext(ctx).Create(code).Error, "create code")
}

// RenameCode changes the name of an active code in the project
func (r *ProjectRepository) RenameCode(ctx context.Context, projectID, codeID uint, name string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Code{}).
		Where("id = ? AND project_id = ? AND is_active = ?", codeID, projectID, true).
		Update("name", name)
	if res.Error != nil {
		return false, wrap(res.Error, "rename code")
	}
	return res.RowsAffected > 0, nil
}

// SoftDelete hides the project from every listing
func (r *ProjectRepository) SoftDelete(ctx context.Context, project *gormModels.Project) error {
	project.IsActive = false
	err := r.db.WithContext(ctx).
		Model(project).
		Select("is_active").
		Updates(project).Error
	return wrap(err, "delete project")
}

// DeactivateCodes soft-deletes codes that are not in keep
func (r *ProjectRepository) DeactivateCodes(ctx context.Context, projectID uint, keep []uint) error {
	q := r.db.WithContext(ctx).
		Model(&gormModels.Code{}).
		Where("project_id = ? AND is_active = ?", projectID, true)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return wrap(q.Update("is_active", false).Error, "deactivate codes")
}

// ListPrompts returns the active prompts
func (r *ProjectRepository) ListPrompts(ctx context.Context, projectID uint) ([]gormModels.Prompt, error) {
	var prompts []gormModels.Prompt
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Order("id ASC").
		Find(&prompts).Error
	if err != nil {
		return nil, wrap(err, "list prompts")
	}
	return prompts, nil
}

func (r *ProjectRepository) CreatePrompt(ctx context.Context, prompt *gormModels.Prompt) error {
	return wrap(r.db.WithContext(ctx).Create(prompt).Error, "create prompt")
}

// UpdatePrompt changes text and image of an active prompt in the project
func (r *ProjectRepository) UpdatePrompt(ctx context.Context, projectID, promptID uint, text string, imageURL *string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Prompt{}).
		Where("id = ? AND project_id = ? AND is_active = ?", promptID, projectID, true).
		Updates(map[string]interface{}{"text": text, "image_url": imageURL})
	if res.Error != nil {
		return false, wrap(res.Error, "update prompt")
	}
	return res.RowsAffected > 0, nil
}

// DeactivatePrompts soft-deletes prompts that are not in keep
func (r *ProjectRepository) DeactivatePrompts(ctx context.Context, projectID uint, keep []uint) error {
	q := r.db.WithContext(ctx).
		Model(&gormModels.Prompt{}).
		Where("project_id = ? AND is_active = ?", projectID, true)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return wrap(q.Update("is_active", false).Error, "deactivate prompts")
}
