package services

import (
	"context"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// AnnotationService manages tagged interval annotations on sessions
type AnnotationService struct {
	db          *gorm.DB
	gate        *AccessGate
	annotations *repositories.AnnotationRepository
	projects    *repositories.ProjectRepository
	metrics     *metrics.MetricsRegistry
}

func NewAnnotationService(db *gorm.DB, gate *AccessGate, m *metrics.MetricsRegistry) *AnnotationService {
	return &AnnotationService{
		db:          db,
		gate:        gate,
		annotations: repositories.NewAnnotationRepository(db),
		projects:    repositories.NewProjectRepository(db),
		metrics:     m,
	}
}

// List returns the live annotations of a visible session
func (s *AnnotationService) List(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string) ([]gormModels.Annotation, error) {
	if _, _, err := s.gate.SessionPath(ctx, caller, projectID, sessionID, false); err != nil {
		return nil, err
	}
	return s.annotations.ListActiveBySession(ctx, sessionID)
}

func (s *AnnotationService) Create(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, req requests.AnnotationRequest) (*gormModels.Annotation, error) {
	_, session, err := s.gate.SessionPath(ctx, caller, projectID, sessionID, true)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	codes, err := s.codes(ctx, projectID, req.Tags)
	if err != nil {
		return nil, err
	}

	annotation := &gormModels.Annotation{
		SessionID: session.ID,
		CreatorID: caller.ID,
		Content:   req.Content,
		Start:     *req.Start,
		End:       *req.End,
		IsActive:  true,
		Codes:     codes,
	}
	if err := s.annotations.Create(ctx, annotation); err != nil {
		return nil, err
	}

	logging.Debug("Annotation created", "annotation_id", annotation.ID, "session_id", session.ID)
	s.metrics.Annotation("create")
	return s.annotations.GetByID(ctx, annotation.ID)
}

// Update is creator only and patches: omitted content, start or end keep their
// current values. Tags are replaced only when the request carries them.
func (s *AnnotationService) Update(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint, req requests.AnnotationRequest) (*gormModels.Annotation, error) {
	annotation, err := s.owned(ctx, caller, projectID, sessionID, annotationID)
	if err != nil {
		return nil, err
	}
	if req.Content == "" {
		req.Content = annotation.Content
	}
	if req.Start == nil {
		req.Start = &annotation.Start
	}
	if req.End == nil {
		req.End = &annotation.End
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var codes []gormModels.Code
	if req.Tags != nil {
		if codes, err = s.codes(ctx, projectID, req.Tags); err != nil {
			return nil, err
		}
	}

	annotation.Content = req.Content
	annotation.Start = *req.Start
	annotation.End = *req.End

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.annotations.WithTx(tx)
		if err := repo.Update(ctx, annotation); err != nil {
			return err
		}
		if req.Tags != nil {
			return repo.ReplaceCodes(ctx, annotation, codes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Annotation("update")
	return s.annotations.GetByID(ctx, annotation.ID)
}

// SoftDelete is creator only; the id stays valid for comments and playlists
func (s *AnnotationService) SoftDelete(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint) error {
	annotation, err := s.owned(ctx, caller, projectID, sessionID, annotationID)
	if err != nil {
		return err
	}
	if err := s.annotations.SoftDelete(ctx, annotation); err != nil {
		return err
	}
	s.metrics.Annotation("delete")
	return nil
}

func (s *AnnotationService) owned(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint) (*gormModels.Annotation, error) {
	path, err := s.gate.AnnotationPath(ctx, caller, projectID, sessionID, annotationID, nil, true)
	if err != nil {
		return nil, err
	}
	if path.Annotation.CreatorID != caller.ID {
		return nil, notOwner(constants.ErrNotAnnotationCreator)
	}
	return path.Annotation, nil
}

// codes loads the codebook entries for ids; any id outside the active codebook fails
func (s *AnnotationService) codes(ctx context.Context, projectID uint, ids []uint) ([]gormModels.Code, error) {
	unique := make([]uint, 0, len(ids))
	for id := range common.UintSet(ids) {
		unique = append(unique, id)
	}
	codes, err := s.projects.GetCodes(ctx, projectID, unique)
	if err != nil {
		return nil, err
	}
	if len(codes) != len(unique) {
		return nil, common.BadRequest(constants.ErrCodeUnknown)
	}
	return codes, nil
}
