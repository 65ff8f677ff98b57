package api

import (
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

// ListAnnotations handles GET /api/projects/{pid}/sessions/{sid}/annotations/
func (h *Handlers) ListAnnotations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		annotations, err := h.deps.Services.Annotations.List(r.Context(), auth.GetCaller(r.Context()), pid, chi.URLParam(r, "sid"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewAnnotationList(annotations))
	}
}

// CreateAnnotation handles POST /api/projects/{pid}/sessions/{sid}/annotations/
func (h *Handlers) CreateAnnotation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var req requests.AnnotationRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		annotation, err := h.deps.Services.Annotations.Create(r.Context(), auth.GetCaller(r.Context()), pid, chi.URLParam(r, "sid"), req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewAnnotationResponse(annotation), http.StatusCreated)
	}
}

// UpdateAnnotation handles PUT /api/projects/{pid}/sessions/{sid}/annotations/{aid}/
func (h *Handlers) UpdateAnnotation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "aid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var req requests.AnnotationRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		annotation, err := h.deps.Services.Annotations.Update(r.Context(), auth.GetCaller(r.Context()), ids[0], chi.URLParam(r, "sid"), ids[1], req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewAnnotationResponse(annotation))
	}
}

// DeleteAnnotation handles DELETE /api/projects/{pid}/sessions/{sid}/annotations/{aid}/
func (h *Handlers) DeleteAnnotation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "aid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Annotations.SoftDelete(r.Context(), auth.GetCaller(r.Context()), ids[0], chi.URLParam(r, "sid"), ids[1]); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}
