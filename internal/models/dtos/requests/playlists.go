package requests

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
)

// PlaylistRequest creates or updates a playlist. On update a nil Annotations
// leaves the references unchanged.
type PlaylistRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Annotations []uint          `json:"annotations"`
}

func (r *PlaylistRequest) Validate() error {
	var v common.Validation
	r.Name = strings.TrimSpace(r.Name)
	v.Check(r.Name != "", constants.ErrNameRequired)
	v.Check(utf8.RuneCountInString(r.Name) <= constants.MaxTitleLength, constants.ErrTitleTooLong)
	v.Check(utf8.RuneCountInString(r.Description) <= constants.MaxDescriptionLength, constants.ErrDescriptionTooLong)
	return v.Err()
}
