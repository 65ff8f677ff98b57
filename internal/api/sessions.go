package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"
	"gabber/annotator/internal/models/dtos/responses"
	"gabber/annotator/internal/services"

	"github.com/go-chi/chi/v5"
)

// maxUploadMemory is how much of a multipart upload is held in memory before spilling to disk
const maxUploadMemory = 32 << 20

// ListSessions handles GET /api/projects/{pid}/sessions/
func (h *Handlers) ListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		sessions, err := h.deps.Services.Sessions.List(r.Context(), auth.GetCaller(r.Context()), pid)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewSessionList(sessions))
	}
}

// CreateSession handles POST /api/projects/{pid}/sessions/ as a multipart
// upload: "id", "participants" and "prompts" (JSON) fields plus a "recording" file
func (h *Handlers) CreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			common.RespondError(w, common.BadRequest(constants.ErrRecordingRequired))
			return
		}
		defer r.MultipartForm.RemoveAll()

		req := requests.CreateSessionRequest{ID: r.FormValue("id")}
		if err := decodeFormJSON(r, "participants", &req.Participants); err != nil {
			common.RespondError(w, err)
			return
		}
		if err := decodeFormJSON(r, "prompts", &req.Prompts); err != nil {
			common.RespondError(w, err)
			return
		}

		var recording *services.Recording
		file, header, err := r.FormFile("recording")
		switch {
		case err == nil:
			defer file.Close()
			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			recording = &services.Recording{Body: file, Size: header.Size, ContentType: contentType}
		case !errors.Is(err, http.ErrMissingFile):
			common.RespondError(w, err)
			return
		}

		session, err := h.deps.Services.Sessions.Create(r.Context(), auth.GetCaller(r.Context()), pid, req, recording)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewSessionResponse(session, ""), http.StatusCreated)
	}
}

// GetSession handles GET /api/projects/{pid}/sessions/{sid}/
func (h *Handlers) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := uintParam(r, "pid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		view, err := h.deps.Services.Sessions.Get(r.Context(), auth.GetCaller(r.Context()), pid, chi.URLParam(r, "sid"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewSessionResponse(view.Session, view.RecordingURL))
	}
}

// decodeFormJSON reads an optional JSON encoded form field
func decodeFormJSON(r *http.Request, field string, dst interface{}) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return common.BadRequest(constants.ErrGeneralInvalidJSON)
	}
	return nil
}
