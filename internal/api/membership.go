package api

import (
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"
	gormModels "gabber/annotator/internal/models/gorm"
)

func respondMembership(w http.ResponseWriter, membership *gormModels.Membership, err error, status ...int) {
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondSuccess(w, responses.NewMembershipResponse(membership), status...)
}

// ListMembers handles GET /api/projects/{pid}/membership/
func (h *Handlers) ListMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		members, err := h.deps.Services.Memberships.ListMembers(r.Context(), auth.GetCaller(r.Context()), pid)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewMembershipList(members))
	}
}

// JoinProject handles POST /api/projects/{pid}/membership/ for public projects
func (h *Handlers) JoinProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		membership, err := h.deps.Services.Memberships.JoinPublicProject(r.Context(), auth.GetCaller(r.Context()), pid)
		respondMembership(w, membership, err, http.StatusCreated)
	}
}

// LeaveProject handles DELETE /api/projects/{pid}/membership/
func (h *Handlers) LeaveProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		membership, err := h.deps.Services.Memberships.LeaveProject(r.Context(), auth.GetCaller(r.Context()), pid)
		respondMembership(w, membership, err)
	}
}

// Invite handles POST /api/projects/{pid}/membership/invites/
func (h *Handlers) Invite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var req requests.InviteRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		membership, err := h.deps.Services.Memberships.Invite(r.Context(), auth.GetCaller(r.Context()), pid, req)
		respondMembership(w, membership, err, http.StatusCreated)
	}
}

// RespondToInvite handles POST /api/projects/{pid}/membership/invites/{mid}/.
// The invitee accepts; staff resend the invite email.
func (h *Handlers) RespondToInvite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "mid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		caller := auth.GetCaller(r.Context())
		memberships := h.deps.Services.Memberships

		var membership *gormModels.Membership
		if memberships.IsInvitee(r.Context(), caller, ids[1]) {
			membership, err = memberships.AcceptInvite(r.Context(), caller, ids[0], ids[1])
		} else {
			membership, err = memberships.ResendInvite(r.Context(), caller, ids[0], ids[1])
		}
		respondMembership(w, membership, err)
	}
}

// ChangeRole handles PUT /api/projects/{pid}/membership/invites/{mid}/
func (h *Handlers) ChangeRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "mid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var req requests.ChangeRoleRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		membership, err := h.deps.Services.Memberships.ChangeRole(r.Context(), auth.GetCaller(r.Context()), ids[0], ids[1], req)
		respondMembership(w, membership, err)
	}
}

// RemoveInvite handles DELETE /api/projects/{pid}/membership/invites/{mid}/.
// The invitee declines; staff revoke the membership.
func (h *Handlers) RemoveInvite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "mid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		caller := auth.GetCaller(r.Context())
		memberships := h.deps.Services.Memberships

		var membership *gormModels.Membership
		if memberships.IsInvitee(r.Context(), caller, ids[1]) {
			membership, err = memberships.DeclineInvite(r.Context(), caller, ids[0], ids[1])
		} else {
			membership, err = memberships.Revoke(r.Context(), caller, ids[0], ids[1])
		}
		respondMembership(w, membership, err)
	}
}
