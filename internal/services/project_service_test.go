package services

import (
	"net/http"
	"testing"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_SlugUniqueness(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")

	first, err := h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{Title: "My Talk"})
	require.NoError(t, err)
	assert.Equal(t, "my-talk", first.Slug)
	assert.True(t, first.ConsentRequired)
	assert.False(t, first.IsPublic)

	_, err = h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{Title: "my talk"})
	requireCode(t, err, http.StatusConflict, constants.ErrTitleExists)

	// deleted projects keep their slug
	require.NoError(t, h.projects.Delete(h.ctx, owner, first.ID))
	_, err = h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{Title: "MY TALK!"})
	requireCode(t, err, http.StatusConflict, constants.ErrTitleExists)
}

func TestProjectService_NonLatinTitles(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")

	slugs := map[string]bool{}
	for _, title := range []string{"口述历史", "Интервью", "!!!"} {
		project, err := h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{Title: title})
		require.NoError(t, err, title)
		assert.NotEmpty(t, project.Slug)
		assert.False(t, slugs[project.Slug], "slug %s reused", project.Slug)
		slugs[project.Slug] = true
	}

	_, err := h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{Title: "Интервью"})
	requireCode(t, err, http.StatusConflict, constants.ErrTitleExists)
}

func TestProjectService_CreatorIsAdmin(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	project := h.project(owner, "Oral Histories", false)

	role, err := h.gate.RoleOf(h.ctx, owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, role)
	assert.Len(t, project.Codes, 2)
	assert.Len(t, project.Prompts, 1)
}

func TestProjectService_CreateValidation(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")

	_, err := h.projects.Create(h.ctx, owner, requests.CreateProjectRequest{Title: " ", Privacy: "secret"})
	requireCode(t, err, http.StatusBadRequest, constants.ErrTitleRequired)
	requireCode(t, err, http.StatusBadRequest, constants.ErrPrivacyInvalid)

	_, err = h.projects.Create(h.ctx, nil, requests.CreateProjectRequest{Title: "Anon"})
	requireCode(t, err, http.StatusUnauthorized, constants.ErrAuthRequired)
}

func TestProjectService_ListVisibility(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	stranger := h.register("Stranger")
	h.project(owner, "Public One", true)
	h.project(owner, "Private One", false)

	anon, err := h.projects.List(h.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, anon, 1)

	mine, err := h.projects.List(h.ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := h.projects.List(h.ctx, stranger)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestProjectService_GetAccess(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	stranger := h.register("Stranger")
	private := h.project(owner, "Private One", false)
	public := h.project(owner, "Public One", true)

	_, err := h.projects.Get(h.ctx, nil, private.ID)
	requireCode(t, err, http.StatusUnauthorized, constants.ErrAuthRequired)

	_, err = h.projects.Get(h.ctx, stranger, private.ID)
	requireCode(t, err, http.StatusForbidden, constants.ErrProjectNotMember)

	access, err := h.projects.Get(h.ctx, nil, public.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleNone, access.Role)

	require.NoError(t, h.projects.Delete(h.ctx, owner, public.ID))
	_, err = h.projects.Get(h.ctx, nil, public.ID)
	requireCode(t, err, http.StatusNotFound, constants.ErrProjectUnknown)
}

func TestProjectService_UpdatePromptsAndCodes(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	member := h.register("Member")
	project := h.project(owner, "Oral Histories", false)
	h.join(member, project)

	description := "Stories from the valley"
	_, err := h.projects.Update(h.ctx, member, project.ID, requests.UpdateProjectRequest{Description: &description})
	requireCode(t, err, http.StatusForbidden, constants.ErrRoleInsufficient)

	keptCode := project.Codes[0].ID
	keptPrompt := project.Prompts[0].ID
	public := requests.PrivacyPublic
	consent := false
	codes := []requests.CodeInput{{ID: &keptCode, Name: "kin"}, {Name: "land"}}
	prompts := []requests.PromptInput{{ID: &keptPrompt, Text: "Early years"}, {Text: "Work life"}}

	updated, err := h.projects.Update(h.ctx, owner, project.ID, requests.UpdateProjectRequest{
		Description:     &description,
		Privacy:         &public,
		ConsentRequired: &consent,
		Codes:           &codes,
		Prompts:         &prompts,
	})
	require.NoError(t, err)
	assert.Equal(t, description, updated.Description)
	assert.True(t, updated.IsPublic)
	assert.False(t, updated.ConsentRequired)

	names := map[string]bool{}
	for _, c := range updated.Codes {
		names[c.Name] = true
	}
	assert.Equal(t, map[string]bool{"kin": true, "land": true}, names)
	require.Len(t, updated.Prompts, 2)

	unknown := uint(9999)
	bad := []requests.CodeInput{{ID: &unknown, Name: "ghost"}}
	_, err = h.projects.Update(h.ctx, owner, project.ID, requests.UpdateProjectRequest{Codes: &bad})
	requireCode(t, err, http.StatusBadRequest, constants.ErrCodeUnknown)
}

func TestProjectService_Stats(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	guest := h.register("Guest")
	project := h.project(owner, "Oral Histories", false)
	h.session(owner, project, "session-1", owner, guest)

	stats, err := h.projects.Stats(h.ctx, owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Sessions)
	assert.Equal(t, int64(2), stats.Consents["none"])
	assert.Equal(t, int64(1), stats.Members["admin"])

	_, err = h.projects.Stats(h.ctx, guest, project.ID)
	requireCode(t, err, http.StatusForbidden, constants.ErrProjectNotMember)
}
