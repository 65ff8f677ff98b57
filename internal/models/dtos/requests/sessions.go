package requests

import (
	"strings"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
)

type ParticipantInput struct {
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	Interviewer bool   `json:"interviewer"`
}

type StructuralPromptInput struct {
	PromptID uint `json:"prompt_id"`
	Start    *int `json:"start"`
	End      *int `json:"end"`
}

// CreateSessionRequest carries the metadata part of a session upload; the
// recording travels alongside it as a file part
type CreateSessionRequest struct {
	ID           string                  `json:"id"`
	Participants []ParticipantInput      `json:"participants"`
	Prompts      []StructuralPromptInput `json:"prompts"`
}

func (r *CreateSessionRequest) Validate() error {
	var v common.Validation
	r.ID = strings.TrimSpace(r.ID)
	v.Check(r.ID != "", constants.ErrSessionIDRequired)

	if len(r.Participants) == 0 {
		v.Add(constants.ErrParticipantsMissing)
	}
	for i := range r.Participants {
		p := &r.Participants[i]
		p.Fullname = strings.TrimSpace(p.Fullname)
		p.Email = common.NormalizeEmail(p.Email)
		if p.Fullname == "" {
			v.Add(constants.ErrFullnameRequired)
			break
		}
		if p.Email == "" || !common.IsEmail(p.Email) {
			v.Add(constants.ErrEmailInvalid)
			break
		}
	}

	for _, sp := range r.Prompts {
		if sp.PromptID == 0 {
			v.Add(constants.ErrPromptUnknown)
			break
		}
		if codes := intervalErrors(sp.Start, sp.End); len(codes) > 0 {
			for _, c := range codes {
				v.Add(c)
			}
			break
		}
	}
	return v.Err()
}

// intervalErrors checks start/end are present, non-negative and ordered
func intervalErrors(start, end *int) []string {
	var codes []string
	if start == nil || *start < 0 {
		codes = append(codes, constants.ErrStartInvalid)
	}
	if end == nil || *end < 0 {
		codes = append(codes, constants.ErrEndInvalid)
	}
	if len(codes) == 0 && *start > *end {
		codes = append(codes, constants.ErrStartBeforeEnd)
	}
	return codes
}
