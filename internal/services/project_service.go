package services

import (
	"context"
	"errors"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/entities"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

type ProjectService struct {
	db          *gorm.DB
	gate        *AccessGate
	projects    *repositories.ProjectRepository
	memberships *repositories.MembershipRepository
	stats       *repositories.StatsRepository
}

func NewProjectService(db *gorm.DB, gate *AccessGate, stats *repositories.StatsRepository) *ProjectService {
	return &ProjectService{
		db:          db,
		gate:        gate,
		projects:    repositories.NewProjectRepository(db),
		memberships: repositories.NewMembershipRepository(db),
		stats:       stats,
	}
}

// List returns active public projects plus private ones the caller belongs to
func (s *ProjectService) List(ctx context.Context, caller *gormModels.User) ([]gormModels.Project, error) {
	var callerID uint
	if caller != nil {
		callerID = caller.ID
	}
	return s.projects.ListActiveVisible(ctx, callerID)
}

// Create stores the project and makes the creator its confirmed admin
func (s *ProjectService) Create(ctx context.Context, caller *gormModels.User, req requests.CreateProjectRequest) (*gormModels.Project, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := common.Slugify(req.Title)
	if slug == "" {
		return nil, common.BadRequest(constants.ErrTitleRequired)
	}
	exists, err := s.projects.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Conflict(constants.ErrTitleExists)
	}

	consentRequired := true
	if req.ConsentRequired != nil {
		consentRequired = *req.ConsentRequired
	}

	project := &gormModels.Project{
		Title:           req.Title,
		Slug:            slug,
		Description:     req.Description,
		IsPublic:        req.IsPublic(),
		CreatorID:       caller.ID,
		IsActive:        true,
		ConsentRequired: consentRequired,
	}
	for _, p := range req.Prompts {
		project.Prompts = append(project.Prompts, gormModels.Prompt{CreatorID: caller.ID, Text: p.Text, ImageURL: p.ImageURL, IsActive: true})
	}
	for _, c := range req.Codes {
		project.Codes = append(project.Codes, gormModels.Code{Name: c.Name, IsActive: true})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projects.WithTx(tx).Create(ctx, project); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return common.Conflict(constants.ErrTitleExists)
			}
			return err
		}
		return s.memberships.WithTx(tx).Create(ctx, &gormModels.Membership{
			UserID:    caller.ID,
			ProjectID: project.ID,
			Role:      constants.RoleAdmin,
			Confirmed: true,
		})
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Project created", "project_id", project.ID, "slug", slug, "creator_id", caller.ID)
	project.Creator = *caller
	return project, nil
}

// Get returns the project with the caller's role
func (s *ProjectService) Get(ctx context.Context, caller *gormModels.User, projectID uint) (*Access, error) {
	return s.gate.CanRead(ctx, caller, projectID)
}

// Update applies a patch. Prompts and codes given as a list replace the
// current set; omitted lists are left alone.
func (s *ProjectService) Update(ctx context.Context, caller *gormModels.User, projectID uint, req requests.UpdateProjectRequest) (*gormModels.Project, error) {
	access, err := s.gate.RequireStaff(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	project := access.Project
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Privacy != nil {
		project.IsPublic = *req.Privacy == requests.PrivacyPublic
	}
	if req.ConsentRequired != nil {
		project.ConsentRequired = *req.ConsentRequired
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.projects.WithTx(tx)
		if err := repo.Update(ctx, project); err != nil {
			return err
		}
		if req.Prompts != nil {
			if err := s.replacePrompts(ctx, repo, caller.ID, projectID, *req.Prompts); err != nil {
				return err
			}
		}
		if req.Codes != nil {
			if err := s.replaceCodes(ctx, repo, projectID, *req.Codes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Project updated", "project_id", projectID, "by", caller.ID)
	return s.projects.GetActiveByID(ctx, projectID)
}

func (s *ProjectService) replacePrompts(ctx context.Context, repo *repositories.ProjectRepository, callerID, projectID uint, prompts []requests.PromptInput) error {
	keep := make([]uint, 0, len(prompts))
	var created []*gormModels.Prompt

	for _, p := range prompts {
		if p.ID == nil {
			created = append(created, &gormModels.Prompt{ProjectID: projectID, CreatorID: callerID, Text: p.Text, ImageURL: p.ImageURL, IsActive: true})
			continue
		}
		ok, err := repo.UpdatePrompt(ctx, projectID, *p.ID, p.Text, p.ImageURL)
		if err != nil {
			return err
		}
		if !ok {
			return common.BadRequest(constants.ErrPromptUnknown)
		}
		keep = append(keep, *p.ID)
	}

	// retire before creating so the new rows are not caught by the keep filter
	if err := repo.DeactivatePrompts(ctx, projectID, keep); err != nil {
		return err
	}
	for _, p := range created {
		if err := repo.CreatePrompt(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProjectService) replaceCodes(ctx context.Context, repo *repositories.ProjectRepository, projectID uint, codes []requests.CodeInput) error {
	keep := make([]uint, 0, len(codes))
	var created []*gormModels.Code

	for _, c := range codes {
		if c.ID == nil {
			created = append(created, &gormModels.Code{ProjectID: projectID, Name: c.Name, IsActive: true})
			continue
		}
		ok, err := repo.RenameCode(ctx, projectID, *c.ID, c.Name)
		if err != nil {
			return err
		}
		if !ok {
			return common.BadRequest(constants.ErrCodeUnknown)
		}
		keep = append(keep, *c.ID)
	}

	if err := repo.DeactivateCodes(ctx, projectID, keep); err != nil {
		return err
	}
	for _, c := range created {
		if err := repo.CreateCode(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Delete soft-deletes the project; its slug stays reserved
func (s *ProjectService) Delete(ctx context.Context, caller *gormModels.User, projectID uint) error {
	access, err := s.gate.RequireStaff(ctx, caller, projectID)
	if err != nil {
		return err
	}
	if err := s.projects.SoftDelete(ctx, access.Project); err != nil {
		return err
	}
	logging.Info("Project deleted", "project_id", projectID, "by", caller.ID)
	return nil
}

// Stats returns aggregate counts for admins and staff
func (s *ProjectService) Stats(ctx context.Context, caller *gormModels.User, projectID uint) (*entities.ProjectStats, error) {
	if _, err := s.gate.RequireStaff(ctx, caller, projectID); err != nil {
		return nil, err
	}
	return s.stats.ProjectStats(ctx, projectID)
}
