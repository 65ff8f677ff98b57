package services

import (
	"context"
	"errors"
	"fmt"

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

// ConsentClaims are the ids bound into a consent token
type ConsentClaims struct {
	UserID    uint
	ProjectID uint
	SessionID string
	ConsentID uint
}

// ConsentDescription is what the consent page shows
type ConsentDescription struct {
	Consent      *gormModels.Consent
	ProjectTitle string
	SessionID    string
	Fullname     string
}

// ConsentService is the per-participant consent ledger. Tokens may be used
// repeatedly until they expire so a participant can change their mind.
type ConsentService struct {
	consents   *repositories.ConsentRepository
	projects   *repositories.ProjectRepository
	users      *repositories.UserRepositoryGORM
	signer     *common.TokenSigner
	dispatcher *Dispatcher
	metrics    *metrics.MetricsRegistry
	cfg        *config.Config
}

func NewConsentService(db *gorm.DB, signer *common.TokenSigner, dispatcher *Dispatcher, m *metrics.MetricsRegistry, cfg *config.Config) *ConsentService {
	return &ConsentService{
		consents:   repositories.NewConsentRepository(db),
		projects:   repositories.NewProjectRepository(db),
		users:      repositories.NewUserRepositoryGORM(db),
		signer:     signer,
		dispatcher: dispatcher,
		metrics:    m,
		cfg:        cfg,
	}
}

// CreateDefault records a none consent for the participant inside the upload transaction
func (s *ConsentService) CreateDefault(ctx context.Context, tx *gorm.DB, session *gormModels.InterviewSession, participantID uint) (*gormModels.Consent, error) {
	consent := &gormModels.Consent{
		SessionID: session.ID,
		UserID:    participantID,
		ProjectID: session.ProjectID,
		Type:      constants.ConsentNone,
	}
	if err := s.consents.WithTx(tx).Create(ctx, consent); err != nil {
		return nil, err
	}
	return consent, nil
}

// GenerateToken signs the four ids of a consent
func (s *ConsentService) GenerateToken(userID, projectID uint, sessionID string, consentID uint) (string, error) {
	return s.signer.Sign(common.TokenClaims{
		Purpose:   constants.TokenPurposeConsent,
		UserID:    userID,
		ProjectID: projectID,
		SessionID: sessionID,
		ConsentID: consentID,
	}, s.cfg.ConsentTokenTTL)
}

// ValidateToken verifies signature and expiry and returns the embedded ids
func (s *ConsentService) ValidateToken(token string) (*ConsentClaims, error) {
	claims, err := s.signer.Parse(constants.TokenPurposeConsent, token)
	if err != nil {
		return nil, tokenError(err)
	}
	if claims.ConsentID == 0 || claims.SessionID == "" {
		return nil, common.Unauthorized(constants.ErrTokenInvalid)
	}
	return &ConsentClaims{
		UserID:    claims.UserID,
		ProjectID: claims.ProjectID,
		SessionID: claims.SessionID,
		ConsentID: claims.ConsentID,
	}, nil
}

// load resolves the token to its consent row and cross-checks the ids
func (s *ConsentService) load(ctx context.Context, token string) (*ConsentClaims, *gormModels.Consent, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}
	consent, err := s.consents.GetByID(ctx, claims.ConsentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, common.NotFound(constants.ErrConsentUnknown)
		}
		return nil, nil, err
	}
	if consent.UserID != claims.UserID || consent.SessionID != claims.SessionID || consent.ProjectID != claims.ProjectID {
		return nil, nil, common.Unauthorized(constants.ErrTokenInvalid)
	}
	return claims, consent, nil
}

// Describe returns the consent with the context shown to the participant
func (s *ConsentService) Describe(ctx context.Context, token string) (*ConsentDescription, error) {
	claims, consent, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, claims.ProjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrProjectUnknown)
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.Unauthorized(constants.ErrUserUnknown)
		}
		return nil, err
	}
	return &ConsentDescription{
		Consent:      consent,
		ProjectTitle: project.Title,
		SessionID:    consent.SessionID,
		Fullname:     user.Fullname,
	}, nil
}

// Update overwrites the participant's decision
func (s *ConsentService) Update(ctx context.Context, token string, req requests.ConsentRequest) (*gormModels.Consent, error) {
	_, consent, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	consentType, err := req.Type()
	if err != nil {
		return nil, err
	}
	if err := s.consents.UpdateType(ctx, consent, consentType); err != nil {
		return nil, err
	}

	logging.Info("Consent updated", "consent_id", consent.ID, "session_id", consent.SessionID, "type", consentType)
	s.metrics.Consent(string(consentType))
	return consent, nil
}

// SendRequest emails the participant a link to their consent page
func (s *ConsentService) SendRequest(project *gormModels.Project, creator, participant *gormModels.User, consent *gormModels.Consent) {
	token, err := s.GenerateToken(participant.ID, project.ID, consent.SessionID, consent.ID)
	if err != nil {
		logging.Warn("Could not sign consent token", "consent_id", consent.ID, "error", err)
		return
	}
	s.dispatcher.Email(participant.Email, providers.ActionEmail{
		Subject:     fmt.Sprintf("Your conversation for %s", project.Title),
		Name:        participant.Fullname,
		TopBody:     fmt.Sprintf("%s recorded a conversation with you for the project %s.", creator.Fullname, project.Title),
		ButtonURL:   fmt.Sprintf("%s/consent/%s", s.cfg.WebClientURL, token),
		ButtonLabel: "Choose who can listen",
		BottomBody:  "Until you decide, only you and the project organisers can access the recording.",
	})
}
