package services

import (
	"context"
	"errors"
	"io"
	"net/http"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"
	"gabber/annotator/internal/providers"

	"gorm.io/gorm"
)

// Recording is the audio part of a session upload
type Recording struct {
	Body        io.ReadSeeker
	Size        int64
	ContentType string
}

// SessionView pairs a session with a short-lived link to its recording. The
// link is empty when signing failed.
type SessionView struct {
	Session      *gormModels.InterviewSession
	RecordingURL string
}

type SessionService struct {
	db          *gorm.DB
	gate        *AccessGate
	identity    *IdentityService
	consent     *ConsentService
	sessions    *repositories.SessionRepository
	projects    *repositories.ProjectRepository
	users       *repositories.UserRepositoryGORM
	memberships *repositories.MembershipRepository
	storage     providers.ObjectStorage
	metrics     *metrics.MetricsRegistry
	cfg         *config.Config
}

func NewSessionService(db *gorm.DB, gate *AccessGate, identity *IdentityService, consent *ConsentService, storage providers.ObjectStorage, m *metrics.MetricsRegistry, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		gate:        gate,
		identity:    identity,
		consent:     consent,
		sessions:    repositories.NewSessionRepository(db),
		projects:    repositories.NewProjectRepository(db),
		users:       repositories.NewUserRepositoryGORM(db),
		memberships: repositories.NewMembershipRepository(db),
		storage:     storage,
		metrics:     m,
		cfg:         cfg,
	}
}

// Create stores a recorded session. Participants are looked up or created and
// every participant starts with a none consent. The recording is uploaded
// before the transaction opens; a failed upload writes nothing and a failed
// transaction removes the uploaded object again.
func (s *SessionService) Create(ctx context.Context, caller *gormModels.User, projectID uint, req requests.CreateSessionRequest, recording *Recording) (*gormModels.InterviewSession, error) {
	access, err := s.gate.CanWrite(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if recording == nil || recording.Body == nil {
		return nil, common.BadRequest(constants.ErrRecordingRequired)
	}

	exists, err := s.sessions.Exists(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Conflict(constants.ErrSessionExists)
	}

	prompts, err := s.projects.ListPrompts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]struct{}, len(prompts))
	for _, p := range prompts {
		known[p.ID] = struct{}{}
	}

	session := &gormModels.InterviewSession{
		ID:        req.ID,
		ProjectID: projectID,
		CreatorID: caller.ID,
	}
	for _, sp := range req.Prompts {
		if _, ok := known[sp.PromptID]; !ok {
			return nil, common.BadRequest(constants.ErrPromptUnknown)
		}
		session.StructuralPrompts = append(session.StructuralPrompts, gormModels.StructuralPrompt{
			PromptID: sp.PromptID,
			Start:    *sp.Start,
			End:      *sp.End,
		})
	}

	path := session.RecordingPath()
	if err := s.storage.Upload(ctx, path, recording.ContentType, recording.Body, recording.Size); err != nil {
		logging.Error("Recording upload failed", "session_id", session.ID, "project_id", projectID, "error", err)
		return nil, common.NewAppError(http.StatusBadGateway, constants.ErrStorageUpload)
	}

	participants := make([]*gormModels.User, 0, len(req.Participants))
	var consents []*gormModels.Consent

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[uint]struct{}, len(req.Participants))
		for _, p := range req.Participants {
			user, err := s.identity.createUnregistered(ctx, s.users.WithTx(tx), p.Fullname, p.Email)
			if err != nil {
				return err
			}
			if _, dup := seen[user.ID]; dup {
				continue
			}
			seen[user.ID] = struct{}{}

			if !user.Registered {
				if err := s.autoJoin(ctx, tx, user.ID, projectID); err != nil {
					return err
				}
			}
			participants = append(participants, user)
			session.Participants = append(session.Participants, gormModels.Participant{
				UserID:      user.ID,
				Interviewer: p.Interviewer,
			})
		}

		if err := s.sessions.WithTx(tx).Create(ctx, session); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return common.Conflict(constants.ErrSessionExists)
			}
			return err
		}

		for _, user := range participants {
			consent, err := s.consent.CreateDefault(ctx, tx, session, user.ID)
			if err != nil {
				return err
			}
			consents = append(consents, consent)
		}
		return nil
	})
	if err != nil {
		// a racing duplicate owns the object under the same path
		if appErr, ok := common.AsAppError(err); !ok || !appErr.Has(constants.ErrSessionExists) {
			if delErr := s.storage.Delete(context.WithoutCancel(ctx), path); delErr != nil {
				logging.Error("Recording cleanup failed", "path", path, "error", delErr)
			}
		}
		return nil, err
	}

	logging.Info("Session uploaded", "session_id", session.ID, "project_id", projectID, "participants", len(participants))
	s.metrics.SessionUploaded()

	for i, user := range participants {
		s.consent.SendRequest(access.Project, caller, user, consents[i])
	}

	return s.sessions.GetByID(ctx, session.ID)
}

// autoJoin makes a placeholder participant a confirmed member unless they already are one
func (s *SessionService) autoJoin(ctx context.Context, tx *gorm.DB, userID, projectID uint) error {
	repo := s.memberships.WithTx(tx)
	_, err := repo.GetActive(ctx, userID, projectID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return repo.Create(ctx, &gormModels.Membership{
		UserID:    userID,
		ProjectID: projectID,
		Role:      constants.RoleUser,
		Confirmed: true,
	})
}

// List returns the project's sessions the caller may see
func (s *SessionService) List(ctx context.Context, caller *gormModels.User, projectID uint) ([]gormModels.InterviewSession, error) {
	access, err := s.gate.CanRead(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	all, err := s.sessions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	visible := make([]gormModels.InterviewSession, 0, len(all))
	for i := range all {
		if SessionVisible(access, &all[i]) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

// Get returns one visible session with a signed recording link
func (s *SessionService) Get(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string) (*SessionView, error) {
	_, session, err := s.gate.SessionPath(ctx, caller, projectID, sessionID, false)
	if err != nil {
		return nil, err
	}

	view := &SessionView{Session: session}
	url, err := s.storage.SignedURL(ctx, session.RecordingPath(), s.cfg.RecordingURLTTL)
	if err != nil {
		logging.Warn("Could not sign recording URL", "session_id", session.ID, "error", err)
		return view, nil
	}
	view.RecordingURL = url
	return view, nil
}
