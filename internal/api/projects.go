package api

import (
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"
)

// ListProjects handles GET /api/projects/: public projects plus the caller's own
func (h *Handlers) ListProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.deps.Services.Projects.List(r.Context(), auth.GetCaller(r.Context()))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewProjectList(projects))
	}
}

// CreateProject handles POST /api/projects/
func (h *Handlers) CreateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		project, err := h.deps.Services.Projects.Create(r.Context(), auth.GetCaller(r.Context()), req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewProjectResponse(project, constants.RoleAdmin), http.StatusCreated)
	}
}

// GetProject handles GET /api/projects/{pid}/
func (h *Handlers) GetProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		access, err := h.deps.Services.Projects.Get(r.Context(), auth.GetCaller(r.Context()), pid)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewProjectResponse(access.Project, access.Role))
	}
}

// UpdateProject handles PUT /api/projects/{pid}/
func (h *Handlers) UpdateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var req requests.UpdateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}

		caller := auth.GetCaller(r.Context())
		project, err := h.deps.Services.Projects.Update(r.Context(), caller, pid, req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		role, err := h.deps.Services.Memberships.RoleOf(r.Context(), caller, pid)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewProjectResponse(project, role))
	}
}

// DeleteProject handles DELETE /api/projects/{pid}/
func (h *Handlers) DeleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Projects.Delete(r.Context(), auth.GetCaller(r.Context()), pid); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}

// ProjectStats handles GET /api/projects/{pid}/stats/
func (h *Handlers) ProjectStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		stats, err := h.deps.Services.Projects.Stats(r.Context(), auth.GetCaller(r.Context()), pid)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, stats)
	}
}
