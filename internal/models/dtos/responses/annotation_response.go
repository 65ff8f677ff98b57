package responses

import (
	"time"

	gormModels "gabber/annotator/internal/models/gorm"
)

type AnnotationResponse struct {
	ID        uint           `json:"id"`
	SessionID string         `json:"session_id"`
	Content   string         `json:"content"`
	Start     int            `json:"start"`
	End       int            `json:"end"`
	Creator   *UserSummary   `json:"creator,omitempty"`
	Tags      []CodeResponse `json:"tags"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewAnnotationResponse(a *gormModels.Annotation) *AnnotationResponse {
	return &AnnotationResponse{
		ID:        a.ID,
		SessionID: a.SessionID,
		Content:   a.Content,
		Start:     a.Start,
		End:       a.End,
		Creator:   NewUserSummary(&a.Creator),
		Tags:      NewCodeResponses(a.Codes),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func NewAnnotationList(annotations []gormModels.Annotation) []*AnnotationResponse {
	out := make([]*AnnotationResponse, 0, len(annotations))
	for i := range annotations {
		out = append(out, NewAnnotationResponse(&annotations[i]))
	}
	return out
}

// CommentResponse is one node of a comment thread. Deleted comments keep
// their place with placeholder content and no creator.
type CommentResponse struct {
	ID           uint               `json:"id"`
	AnnotationID uint               `json:"annotation_id"`
	ParentID     *uint              `json:"parent_id"`
	Content      string             `json:"content"`
	Creator      *UserSummary       `json:"creator"`
	Deleted      bool               `json:"deleted"`
	Replies      []*CommentResponse `json:"replies"`
	CreatedAt    time.Time          `json:"created_at"`
}

func NewCommentResponse(c *gormModels.Comment, deleted bool) *CommentResponse {
	return &CommentResponse{
		ID:           c.ID,
		AnnotationID: c.AnnotationID,
		ParentID:     c.ParentID,
		Content:      c.Content,
		Creator:      NewUserSummary(&c.Creator),
		Deleted:      deleted,
		Replies:      []*CommentResponse{},
		CreatedAt:    c.CreatedAt,
	}
}
