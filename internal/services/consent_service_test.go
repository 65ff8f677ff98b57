package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsentService_TokenRoundTrip(t *testing.T) {
	h := newHarness(t)

	token, err := h.consents.GenerateToken(3, 5, "abc", 7)
	require.NoError(t, err)

	claims, err := h.consents.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, &ConsentClaims{UserID: 3, ProjectID: 5, SessionID: "abc", ConsentID: 7}, claims)

	_, err = h.consents.ValidateToken(token + "x")
	requireCode(t, err, http.StatusUnauthorized, constants.ErrTokenInvalid)

	// tokens signed for another purpose never validate as consent tokens
	other, err := h.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeReset, UserID: 3, SessionID: "abc", ConsentID: 7}, time.Hour)
	require.NoError(t, err)
	_, err = h.consents.ValidateToken(other)
	requireCode(t, err, http.StatusUnauthorized, constants.ErrTokenInvalid)

	expired, err := h.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeConsent, UserID: 3, ProjectID: 5, SessionID: "abc", ConsentID: 7}, -time.Minute)
	require.NoError(t, err)
	_, err = h.consents.ValidateToken(expired)
	requireCode(t, err, http.StatusUnauthorized, constants.ErrTokenExpired)
}

func TestConsentService_UpdateFromEmailedLink(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	project := h.project(owner, "Oral Histories", true)
	session := h.session(owner, project, "s-1", owner)
	h.dispatcher.Wait()

	var link string
	for _, e := range h.notifier.Emails() {
		if strings.Contains(e.Email.ButtonURL, "/consent/") {
			link = e.Email.ButtonURL
		}
	}
	require.NotEmpty(t, link)
	token := link[strings.LastIndex(link, "/")+1:]

	described, err := h.consents.Describe(h.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Oral Histories", described.ProjectTitle)
	assert.Equal(t, session.ID, described.SessionID)
	assert.Equal(t, constants.ConsentNone, described.Consent.Type)

	_, err = h.consents.Update(h.ctx, token, requests.ConsentRequest{Consent: "everyone"})
	requireCode(t, err, http.StatusBadRequest, constants.ErrConsentInvalidType)

	updated, err := h.consents.Update(h.ctx, token, requests.ConsentRequest{Consent: "public"})
	require.NoError(t, err)
	assert.Equal(t, constants.ConsentPublic, updated.Type)

	// the same link can be used again to change the decision
	updated, err = h.consents.Update(h.ctx, token, requests.ConsentRequest{Consent: "private"})
	require.NoError(t, err)
	assert.Equal(t, constants.ConsentPrivate, updated.Type)
}

func TestConsentService_TokenMustMatchConsentRow(t *testing.T) {
	h := newHarness(t)
	owner := h.register("Owner")
	project := h.project(owner, "Oral Histories", true)
	session := h.session(owner, project, "s-1", owner)

	forged, err := h.consents.GenerateToken(owner.ID+100, project.ID, session.ID, session.Consents[0].ID)
	require.NoError(t, err)
	_, err = h.consents.Update(h.ctx, forged, requests.ConsentRequest{Consent: "public"})
	requireCode(t, err, http.StatusUnauthorized, constants.ErrTokenInvalid)

	missing, err := h.consents.GenerateToken(owner.ID, project.ID, session.ID, 9999)
	require.NoError(t, err)
	_, err = h.consents.Update(h.ctx, missing, requests.ConsentRequest{Consent: "public"})
	requireCode(t, err, http.StatusNotFound, constants.ErrConsentUnknown)
}
