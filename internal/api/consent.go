package api

import (
	"net/http"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

// GetConsent handles GET /api/consent/{token}/. The token is the only credential.
func (h *Handlers) GetConsent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		desc, err := h.deps.Services.Consents.Describe(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewConsentResponse(desc.Consent, desc.ProjectTitle, desc.Fullname))
	}
}

// UpdateConsent handles PUT /api/consent/{token}/
func (h *Handlers) UpdateConsent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ConsentRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		consent, err := h.deps.Services.Consents.Update(r.Context(), chi.URLParam(r, "token"), req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewConsentResponse(consent, "", ""))
	}
}
