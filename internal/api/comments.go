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

func commentTree(nodes []*services.CommentNode) []*responses.CommentResponse {
	out := make([]*responses.CommentResponse, 0, len(nodes))
	for _, node := range nodes {
		resp := responses.NewCommentResponse(&node.Comment, node.Deleted)
		resp.Replies = commentTree(node.Replies)
		out = append(out, resp)
	}
	return out
}

// ListComments handles GET .../annotations/{aid}/comments/ and returns the whole thread
func (h *Handlers) ListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "aid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		thread, err := h.deps.Services.Comments.Thread(r.Context(), auth.GetCaller(r.Context()), ids[0], chi.URLParam(r, "sid"), ids[1])
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, commentTree(thread))
	}
}

// CreateComment handles POST .../annotations/{aid}/comments/ and, with a
// {cid} in the path, replies to that comment
func (h *Handlers) CreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "aid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		var parentID *uint
		if chi.URLParam(r, "cid") != "" {
			cid, err := uintParam(r, "cid")
			if err != nil {
				common.RespondError(w, err)
				return
			}
			parentID = &cid
		}

		var req requests.CommentRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, err)
			return
		}
		comment, err := h.deps.Services.Comments.Create(r.Context(), auth.GetCaller(r.Context()), ids[0], chi.URLParam(r, "sid"), ids[1], parentID, req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, responses.NewCommentResponse(comment, false), http.StatusCreated)
	}
}

// ListReplies handles GET .../comments/{cid}/replies/
func (h *Handlers) ListReplies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "aid", "cid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		replies, err := h.deps.Services.Comments.Replies(r.Context(), auth.GetCaller(r.Context()), ids[0], chi.URLParam(r, "sid"), ids[1], ids[2])
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, commentTree(replies))
	}
}

// DeleteComment handles DELETE .../comments/{cid}/
func (h *Handlers) DeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := uintParams(r, "pid", "aid", "cid")
		if err != nil {
			common.RespondError(w, err)
			return
		}
		if err := h.deps.Services.Comments.SoftDelete(r.Context(), auth.GetCaller(r.Context()), ids[0], chi.URLParam(r, "sid"), ids[1], ids[2]); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, nil)
	}
}
