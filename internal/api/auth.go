package api

import (
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"
	"gabber/annotator/internal/services"

	"github.com/go-chi/chi/v5"
)

func tokenResponse(pair *services.TokenPair) *responses.TokenResponse {
	return responses.NewTokenResponse(pair.AccessToken, pair.RefreshToken, pair.User)
}

// Register handles POST /api/auth/register/ and signs the new user in
func (h *Handlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}

		identity := h.deps.Services.Identity
		if _, err := identity.Register(r.Context(), req); err != nil {
			common.RespondError(w, err)
			return
		}
		pair, err := identity.Login(r.Context(), requests.LoginRequest{Email: req.Email, Password: req.Password})
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, tokenResponse(pair), http.StatusCreated)
	}
}

// Login handles POST /api/auth/login/
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		pair, err := h.deps.Services.Identity.Login(r.Context(), req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, tokenResponse(pair))
	}
}

// Refresh handles POST /api/auth/refresh/
func (h *Handlers) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RefreshRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		pair, err := h.deps.Services.Identity.Refresh(r.Context(), req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, tokenResponse(pair))
	}
}

// Logout handles POST /api/auth/logout/ by revoking the refresh token
func (h *Handlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RefreshRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Identity.Logout(r.Context(), req); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}

// ForgotPassword handles POST /api/auth/forgot/. Unknown emails succeed too.
func (h *Handlers) ForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ForgotPasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Identity.ForgotPassword(r.Context(), req); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}

// ResetPassword handles POST /api/auth/reset/{token}/
func (h *Handlers) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ResetPasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Identity.ResetPassword(r.Context(), chi.URLParam(r, "token"), req); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}

// RegisterInvited handles POST /api/auth/register/{token}/ for users created by an invite or upload
func (h *Handlers) RegisterInvited() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RegisterInvitedRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		pair, err := h.deps.Services.Identity.RegisterInvited(r.Context(), chi.URLParam(r, "token"), req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, tokenResponse(pair))
	}
}

// VerifyEmail handles POST /api/auth/verify/{token}/
func (h *Handlers) VerifyEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.deps.Services.Identity.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewUserDetail(user))
	}
}

// Me handles GET /api/auth/me/
func (h *Handlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondSuccess(w, responses.NewUserDetail(auth.GetCaller(r.Context())))
	}
}

// SetDeviceToken handles PUT /api/auth/device/
func (h *Handlers) SetDeviceToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.DeviceTokenRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		caller := auth.GetCaller(r.Context())
		if err := h.deps.Services.Identity.SetDeviceToken(r.Context(), caller, req); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}
