package api

import (
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"
	"gabber/annotator/internal/services"
)

func playlistResponse(view *services.PlaylistView) *responses.PlaylistResponse {
	items := make([]responses.PlaylistItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		resp := responses.PlaylistItemResponse{AnnotationID: item.AnnotationID, Removed: item.Removed}
		if item.Annotation != nil {
			resp.Annotation = responses.NewAnnotationResponse(item.Annotation)
		}
		items = append(items, resp)
	}
	return responses.NewPlaylistResponse(view.Playlist, items)
}

func respondPlaylist(w http.ResponseWriter, view *services.PlaylistView, err error, status ...int) {
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondSuccess(w, playlistResponse(view), status...)
}

// ListPlaylists handles GET /api/playlists/
func (h *Handlers) ListPlaylists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := h.deps.Services.Playlists.List(r.Context(), auth.GetCaller(r.Context()))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		out := make([]*responses.PlaylistResponse, 0, len(views))
		for _, view := range views {
			out = append(out, playlistResponse(view))
		}
		common.RespondSuccess(w, out)
	}
}

// CreatePlaylist handles POST /api/playlists/
func (h *Handlers) CreatePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.PlaylistRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		view, err := h.deps.Services.Playlists.Create(r.Context(), auth.GetCaller(r.Context()), req)
		respondPlaylist(w, view, err, http.StatusCreated)
	}
}

// GetPlaylist handles GET /api/playlists/{plid}/
func (h *Handlers) GetPlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "plid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		view, err := h.deps.Services.Playlists.Get(r.Context(), auth.GetCaller(r.Context()), id)
		respondPlaylist(w, view, err)
	}
}

// UpdatePlaylist handles PUT /api/playlists/{plid}/
func (h *Handlers) UpdatePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "plid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var req requests.PlaylistRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		view, err := h.deps.Services.Playlists.Update(r.Context(), auth.GetCaller(r.Context()), id, req)
		respondPlaylist(w, view, err)
	}
}

// DeletePlaylist handles DELETE /api/playlists/{plid}/
func (h *Handlers) DeletePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "plid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Playlists.SoftDelete(r.Context(), auth.GetCaller(r.Context()), id); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}
