package requests

import (
	"strings"
	"unicode/utf8"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
)

// AnnotationRequest is shared by create and update. On update a nil Tags
// leaves the tag set unchanged while an empty list clears it.
type AnnotationRequest struct {
	Content string `json:"content"`
	Start   *int   `json:"start"`
	End     *int   `json:"end"`
	Tags    []uint `json:"tags"`
}

func (r *AnnotationRequest) Validate() error {
	var v common.Validation
	validateContent(&v, &r.Content)
	for _, code := range intervalErrors(r.Start, r.End) {
		v.Add(code)
	}
	return v.Err()
}

// CommentRequest may name its parent in the body instead of the path
type CommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

func (r *CommentRequest) Validate() error {
	var v common.Validation
	validateContent(&v, &r.Content)
	return v.Err()
}

func validateContent(v *common.Validation, content *string) {
	*content = strings.TrimSpace(*content)
	if *content == "" {
		v.Add(constants.ErrContentRequired)
		return
	}
	v.Check(utf8.RuneCountInString(*content) <= constants.MaxContentLength, constants.ErrContentTooLong)
}
