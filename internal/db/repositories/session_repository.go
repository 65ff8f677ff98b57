package repositories

import (
	"context"

	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// SessionRepository stores interview sessions with their participants,
// structural prompts and consents
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) WithTx(tx *gorm.DB) *SessionRepository {
	return &SessionRepository{db: tx}
}

func (r *SessionRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("participants.id ASC") }).
		Preload("Participants.User").
		Preload("StructuralPrompts", func(db *gorm.DB) *gorm.DB { return db.Order("start_interval ASC") }).
		Preload("StructuralPrompts.Prompt").
		Preload("Consents")
}

// GetByID loads the session and everything needed to decide its visibility
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*gormModels.InterviewSession, error) {
	var session gormModels.InterviewSession
	err := r.preloaded(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, wrap(err, "fetch session")
	}
	return &session, nil
}

// Exists reports whether a session id is taken in any project
func (r *SessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.InterviewSession{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, wrap(err, "check session")
	}
	return count > 0, nil
}

// ListByProject returns sessions newest first
func (r *SessionRepository) ListByProject(ctx context.Context, projectID uint) ([]gormModels.InterviewSession, error) {
	var sessions []gormModels.InterviewSession
	err := r.preloaded(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, wrap(err, "list sessions")
	}
	return sessions, nil
}

// Create inserts the session with its participants and structural prompts
func (r *SessionRepository) Create(ctx context.Context, session *gormModels.InterviewSession) error {
	err := r.db.WithContext(ctx).Omit("Creator").Create(session).Error
	return wrap(err, "create session")
}
