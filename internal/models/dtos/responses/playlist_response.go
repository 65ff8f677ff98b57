package responses

import (
	"encoding/json"
	"time"

	gormModels "gabber/annotator/internal/models/gorm"
)

// PlaylistItemResponse references an annotation; removed items carry no content
type PlaylistItemResponse struct {
	AnnotationID uint                `json:"annotation_id"`
	Removed      bool                `json:"removed"`
	Annotation   *AnnotationResponse `json:"annotation,omitempty"`
}

type PlaylistResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Metadata    json.RawMessage        `json:"metadata,omitempty"`
	Annotations []PlaylistItemResponse `json:"annotations"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func NewPlaylistResponse(p *gormModels.Playlist, items []PlaylistItemResponse) *PlaylistResponse {
	resp := &PlaylistResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Annotations: items,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Metadata != "" && json.Valid([]byte(p.Metadata)) {
		resp.Metadata = json.RawMessage(p.Metadata)
	}
	return resp
}
