package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/db/testdb"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"
	"gabber/annotator/internal/providers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sentEmail struct {
	Recipient string
	Email     providers.ActionEmail
}

type sentPush struct {
	DeviceToken string
	Title       string
	Data        map[string]string
}

// fakeNotifier records deliveries instead of sending them
type fakeNotifier struct {
	mu     sync.Mutex
	emails []sentEmail
	pushes []sentPush
	err    error
}

func (n *fakeNotifier) SendActionEmail(_ context.Context, recipient string, email providers.ActionEmail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, sentEmail{Recipient: recipient, Email: email})
	return n.err
}

func (n *fakeNotifier) SendPush(_ context.Context, deviceToken, title, _ string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, sentPush{DeviceToken: deviceToken, Title: title, Data: data})
	return n.err
}

func (n *fakeNotifier) Emails() []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEmail(nil), n.emails...)
}

func (n *fakeNotifier) Pushes() []sentPush {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentPush(nil), n.pushes...)
}

// fakeStorage keeps uploaded recordings in memory
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	signErr   error
}

func (s *fakeStorage) Upload(_ context.Context, path, _ string, body io.ReadSeeker, _ int64) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *fakeStorage) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.test/" + path + "?sig=1", nil
}

type harness struct {
	t           *testing.T
	ctx         context.Context
	db          *gorm.DB
	cfg         *config.Config
	signer      *common.TokenSigner
	notifier    *fakeNotifier
	storage     *fakeStorage
	dispatcher  *Dispatcher
	gate        *AccessGate
	identity    *IdentityService
	memberships *MembershipService
	consents    *ConsentService
	projects    *ProjectService
	sessions    *SessionService
	annotations *AnnotationService
	comments    *CommentService
	playlists   *PlaylistService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testdb.Open(t)
	cfg := &config.Config{
		SecretKey:       "test-secret",
		ConsentSalt:     "consent",
		InviteSalt:      "invite",
		ResetSalt:       "reset",
		VerifySalt:      "verify",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		ConsentTokenTTL: time.Hour,
		InviteTokenTTL:  time.Hour,
		ResetTokenTTL:   time.Hour,
		BcryptCost:      bcrypt.MinCost,
		RecordingURLTTL: time.Minute,
		WebClientURL:    "https://app.test",
	}

	signer := common.NewTokenSigner(cfg.SecretKey, map[constants.TokenPurpose]string{
		constants.TokenPurposeConsent: cfg.ConsentSalt,
		constants.TokenPurposeInvite:  cfg.InviteSalt,
		constants.TokenPurposeReset:   cfg.ResetSalt,
		constants.TokenPurposeVerify:  cfg.VerifySalt,
	})
	tokens := common.NewTokenStore(common.NewMemoryKeyStore(time.Minute))
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	notifier := &fakeNotifier{}
	storage := &fakeStorage{objects: map[string][]byte{}}
	dispatcher := NewDispatcher(notifier, m, 2)

	gate := NewAccessGate(db)
	identity := NewIdentityService(db, signer, tokens, dispatcher, cfg)
	consents := NewConsentService(db, signer, dispatcher, m, cfg)
	stats := repositories.NewStatsRepository(testdb.SQLX(t, db))

	return &harness{
		t:           t,
		ctx:         context.Background(),
		db:          db,
		cfg:         cfg,
		signer:      signer,
		notifier:    notifier,
		storage:     storage,
		dispatcher:  dispatcher,
		gate:        gate,
		identity:    identity,
		memberships: NewMembershipService(db, gate, identity, dispatcher, m, cfg),
		consents:    consents,
		projects:    NewProjectService(db, gate, stats),
		sessions:    NewSessionService(db, gate, identity, consents, storage, m, cfg),
		annotations: NewAnnotationService(db, gate, m),
		comments:    NewCommentService(db, gate, dispatcher, m),
		playlists:   NewPlaylistService(db, gate),
	}
}

func (h *harness) register(name string) *gormModels.User {
	h.t.Helper()
	user, err := h.identity.Register(h.ctx, requests.RegisterRequest{
		Fullname: name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "correct horse",
	})
	require.NoError(h.t, err)
	return user
}

func (h *harness) project(owner *gormModels.User, title string, public bool) *gormModels.Project {
	h.t.Helper()
	privacy := requests.PrivacyPrivate
	if public {
		privacy = requests.PrivacyPublic
	}
	project, err := h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{
		Title:   title,
		Privacy: privacy,
		Prompts: []requests.PromptInput{{Text: "Childhood"}},
		Codes:   []requests.CodeInput{{Name: "family"}, {Name: "work"}},
	})
	require.NoError(h.t, err)
	return project
}

func (h *harness) join(user *gormModels.User, project *gormModels.Project) {
	h.t.Helper()
	require.NoError(h.t, h.db.Create(&gormModels.Membership{
		UserID:          user.ID,
		ProjectID:       project.ID,
		Role:            constants.RoleUser,
		Confirmed:       true,
		StatusChangedAt: time.Now(),
	}).Error)
}

func (h *harness) session(creator *gormModels.User, project *gormModels.Project, id string, participants ...*gormModels.User) *gormModels.InterviewSession {
	h.t.Helper()
	req := requests.CreateSessionRequest{ID: id}
	for _, p := range participants {
		req.Participants = append(req.Participants, requests.ParticipantInput{Fullname: p.Fullname, Email: p.Email})
	}
	session, err := h.sessions.Create(h.ctx, creator, project.ID, req, recording())
	require.NoError(h.t, err)
	return session
}

// setConsent overwrites a participant's consent directly
func (h *harness) setConsent(sessionID string, user *gormModels.User, ct constants.ConsentType) {
	h.t.Helper()
	require.NoError(h.t, h.db.Model(&gormModels.Consent{}).
		Where("session_id = ? AND user_id = ?", sessionID, user.ID).
		Update("type", ct).Error)
}

func recording() *Recording {
	return &Recording{Body: strings.NewReader("RIFF....WAVE"), Size: 12, ContentType: "audio/wav"}
}

func intp(v int) *int { return &v }

// requireCode asserts err is an AppError carrying code with the given status
func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, status, appErr.Status, "status for %v", appErr.Codes)
	require.True(t, appErr.Has(code), "expected %s in %v", code, appErr.Codes)
}

var errBoom = errors.New("boom")
