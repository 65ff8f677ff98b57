package responses

import (
	"time"

	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"
)

type ParticipantResponse struct {
	User        *UserSummary          `json:"user"`
	Interviewer bool                  `json:"interviewer"`
	Consent     constants.ConsentType `json:"consent"`
}

type StructuralPromptResponse struct {
	PromptID uint   `json:"prompt_id"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

type SessionResponse struct {
	ID           string                     `json:"id"`
	ProjectID    uint                       `json:"project_id"`
	Creator      *UserSummary               `json:"creator,omitempty"`
	Participants []ParticipantResponse      `json:"participants"`
	Prompts      []StructuralPromptResponse `json:"prompts"`
	RecordingURL string                     `json:"recording_url,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
}

// NewSessionResponse renders a session. recordingURL is only filled on the
// detail endpoint.
func NewSessionResponse(s *gormModels.InterviewSession, recordingURL string) *SessionResponse {
	consents := make(map[uint]constants.ConsentType, len(s.Consents))
	for _, c := range s.Consents {
		consents[c.UserID] = c.Type
	}

	resp := &SessionResponse{
		ID:           s.ID,
		ProjectID:    s.ProjectID,
		Creator:      NewUserSummary(&s.Creator),
		Participants: make([]ParticipantResponse, 0, len(s.Participants)),
		Prompts:      make([]StructuralPromptResponse, 0, len(s.StructuralPrompts)),
		RecordingURL: recordingURL,
		CreatedAt:    s.CreatedAt,
	}
	for i := range s.Participants {
		p := &s.Participants[i]
		consent, ok := consents[p.UserID]
		if !ok {
			consent = constants.ConsentNone
		}
		resp.Participants = append(resp.Participants, ParticipantResponse{
			User:        NewUserSummary(&p.User),
			Interviewer: p.Interviewer,
			Consent:     consent,
		})
	}
	for _, sp := range s.StructuralPrompts {
		resp.Prompts = append(resp.Prompts, StructuralPromptResponse{
			PromptID: sp.PromptID,
			Text:     sp.Prompt.Text,
			Start:    sp.Start,
			End:      sp.End,
		})
	}
	return resp
}

func NewSessionList(sessions []gormModels.InterviewSession) []*SessionResponse {
	out := make([]*SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, NewSessionResponse(&sessions[i], ""))
	}
	return out
}

type ConsentResponse struct {
	ID           uint                  `json:"id"`
	SessionID    string                `json:"session_id"`
	ProjectTitle string                `json:"project_title,omitempty"`
	Fullname     string                `json:"fullname,omitempty"`
	Consent      constants.ConsentType `json:"consent"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func NewConsentResponse(c *gormModels.Consent, projectTitle, fullname string) *ConsentResponse {
	return &ConsentResponse{
		ID:           c.ID,
		SessionID:    c.SessionID,
		ProjectTitle: projectTitle,
		Fullname:     fullname,
		Consent:      c.Type,
		UpdatedAt:    c.UpdatedAt,
	}
}
