package services

import (
	"net/http"
	"testing"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSessionService_CreateDefaultsConsentAndUploads(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	project := h.project(owner, "Oral Histories", false)

	req := requests.CreateSessionRequest{
		ID: "abc-123",
		Participants: []requests.ParticipantInput{
			{Fullname: "Owner", Email: owner.Email, Interviewer: true},
			{Fullname: "Granny", Email: "granny@example.com"},
		},
		Prompts: []requests.StructuralPromptInput{{PromptID: project.Prompts[0].ID, Start: intp(0), End: intp(30)}},
	}
	session, err := h.sessions.Create(h.ctx, owner, project.ID, req, recording())
	require.NoError(t, err)

	assert.Len(t, session.Participants, 2)
	assert.Len(t, session.StructuralPrompts, 1)
	require.Len(t, session.Consents, 2)
	for _, c := range session.Consents {
		assert.Equal(t, constants.ConsentNone, c.Type)
	}
	assert.Contains(t, h.storage.objects, gormModels.RecordingPath(project.ID, "abc-123"))

	// the placeholder participant is now a confirmed member
	granny, err := h.identity.CreateUnregistered(h.ctx, "", "granny@example.com")
	require.NoError(t, err)
	role, err := h.gate.RoleOf(h.ctx, granny, project.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, role)

	h.dispatcher.Wait()
	consentMails := 0
	for _, e := range h.notifier.Emails() {
		if e.Email.ButtonLabel == "Choose who can listen" {
			consentMails++
		}
	}
	assert.Equal(t, 2, consentMails)

	_, err = h.sessions.Create(h.ctx, owner, project.ID, req, recording())
	requireCode(t, err, http.StatusConflict, constants.ErrSessionExists)
}

func TestSessionService_UploadFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	project := h.project(owner, "Oral Histories", false)
	h.storage.uploadErr = errBoom

	req := requests.CreateSessionRequest{
		ID:           "doomed",
		Participants: []requests.ParticipantInput{{Fullname: "Granny", Email: "granny@example.com"}},
	}
	_, err := h.sessions.Create(h.ctx, owner, project.ID, req, recording())
	requireCode(t, err, http.StatusBadGateway, constants.ErrStorageUpload)

	var sessions, consents, users int64
	h.db.Model(&gormModels.InterviewSession{}).Count(&sessions)
	h.db.Model(&gormModels.Consent{}).Count(&consents)
	h.db.Model(&gormModels.User{}).Where("email = ?", "granny@example.com").Count(&users)
	assert.Zero(t, sessions)
	assert.Zero(t, consents)
	assert.Zero(t, users)
}

func TestSessionService_FailedCommitRemovesRecording(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	project := h.project(owner, "Oral Histories", false)

	require.NoError(t, h.db.Callback().Create().Before("gorm:create").Register("test:fail_sessions", func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Table == "interview_sessions" {
			_ = db.AddError(errBoom)
		}
	}))

	req := requests.CreateSessionRequest{
		ID:           "half-done",
		Participants: []requests.ParticipantInput{{Fullname: "Granny", Email: "granny@example.com"}},
	}
	_, err := h.sessions.Create(h.ctx, owner, project.ID, req, recording())
	require.ErrorIs(t, err, errBoom)

	assert.NotContains(t, h.storage.objects, gormModels.RecordingPath(project.ID, "half-done"))
	var users int64
	h.db.Model(&gormModels.User{}).Where("email = ?", "granny@example.com").Count(&users)
	assert.Zero(t, users)
}

func TestSessionService_CreateValidation(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	stranger := h.register("Stranger")
	project := h.project(owner, "Oral Histories", true)

	_, err := h.sessions.Create(h.ctx, stranger, project.ID, requests.CreateSessionRequest{ID: "x"}, recording())
	requireCode(t, err, http.StatusForbidden, constants.ErrProjectNotMember)

	_, err = h.sessions.Create(h.ctx, owner, project.ID, requests.CreateSessionRequest{ID: "x"}, recording())
	requireCode(t, err, http.StatusBadRequest, constants.ErrParticipantsMissing)

	participants := []requests.ParticipantInput{{Fullname: "A", Email: "a@example.com"}}
	_, err = h.sessions.Create(h.ctx, owner, project.ID, requests.CreateSessionRequest{ID: "x", Participants: participants}, nil)
	requireCode(t, err, http.StatusBadRequest, constants.ErrRecordingRequired)

	_, err = h.sessions.Create(h.ctx, owner, project.ID, requests.CreateSessionRequest{
		ID:           "x",
		Participants: participants,
		Prompts:      []requests.StructuralPromptInput{{PromptID: 9999, Start: intp(0), End: intp(1)}},
	}, recording())
	requireCode(t, err, http.StatusBadRequest, constants.ErrPromptUnknown)
}

func TestSessionService_VisibilityInvariant(t *testing.T) {
	h := newHarness(t)
	admin := h.register("Admin")
	p1 := h.register("Pone")
	p2 := h.register("Ptwo")
	member := h.register("Member")
	project := h.project(admin, "Open Voices", true)
	h.join(member, project)

	session := h.session(admin, project, "s-1", p1, p2)
	h.setConsent(session.ID, p1, constants.ConsentPublic)
	h.setConsent(session.ID, p2, constants.ConsentNone)

	anon, err := h.sessions.List(h.ctx, nil, project.ID)
	require.NoError(t, err)
	assert.Empty(t, anon)

	forMember, err := h.sessions.List(h.ctx, member, project.ID)
	require.NoError(t, err)
	assert.Empty(t, forMember)

	forAdmin, err := h.sessions.List(h.ctx, admin, project.ID)
	require.NoError(t, err)
	require.Len(t, forAdmin, 1)

	forParticipant, err := h.sessions.List(h.ctx, p2, project.ID)
	require.NoError(t, err)
	assert.Len(t, forParticipant, 1)

	_, err = h.sessions.Get(h.ctx, nil, project.ID, session.ID)
	requireCode(t, err, http.StatusForbidden, constants.ErrSessionHidden)

	// private consent from everyone opens the session to members only
	h.setConsent(session.ID, p1, constants.ConsentPrivate)
	h.setConsent(session.ID, p2, constants.ConsentPublic)

	anon, err = h.sessions.List(h.ctx, nil, project.ID)
	require.NoError(t, err)
	assert.Empty(t, anon)

	forMember, err = h.sessions.List(h.ctx, member, project.ID)
	require.NoError(t, err)
	assert.Len(t, forMember, 1)

	h.setConsent(session.ID, p1, constants.ConsentPublic)
	anon, err = h.sessions.List(h.ctx, nil, project.ID)
	require.NoError(t, err)
	assert.Len(t, anon, 1)
}

func TestSessionService_ConsentNotRequired(t *testing.T) {
	h := newHarness(t)
	admin := h.register("Admin")
	guest := h.register("Guest")
	consent := false
	project, err := h.projects.Create(h.ctx, admin, requests.CreateProjectRequest{
		Title:           "Unrestricted",
		Privacy:         requests.PrivacyPublic,
		ConsentRequired: &consent,
	})
	require.NoError(t, err)
	h.session(admin, project, "s-1", guest)

	anon, err := h.sessions.List(h.ctx, nil, project.ID)
	require.NoError(t, err)
	assert.Len(t, anon, 1)
}

func TestSessionService_GetSignsRecording(t *testing.T) {
	h := newHarness(t)
	admin := h.register("Admin")
	project := h.project(admin, "Oral Histories", false)
	session := h.session(admin, project, "s-1", admin)

	view, err := h.sessions.Get(h.ctx, admin, project.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/"+session.RecordingPath()+"?sig=1", view.RecordingURL)

	h.storage.signErr = errBoom
	view, err = h.sessions.Get(h.ctx, admin, project.ID, session.ID)
	require.NoError(t, err)
	assert.Empty(t, view.RecordingURL)

	other := h.project(admin, "Another", false)
	_, err = h.sessions.Get(h.ctx, admin, other.ID, session.ID)
	requireCode(t, err, http.StatusBadRequest, constants.ErrSessionNotInProject)

	_, err = h.sessions.Get(h.ctx, admin, project.ID, "missing")
	requireCode(t, err, http.StatusNotFound, constants.ErrSessionUnknown)
}
