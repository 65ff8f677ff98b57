package responses

import (
	"time"

	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"
)

type PromptResponse struct {
	ID       uint    `json:"id"`
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url,omitempty"`
}

type CodeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID              uint             `json:"id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description"`
	Privacy         string           `json:"privacy"`
	ConsentRequired bool             `json:"consent_required"`
	Creator         *UserSummary     `json:"creator,omitempty"`
	Prompts         []PromptResponse `json:"prompts"`
	Codes           []CodeResponse   `json:"codebook"`
	Role            constants.Role   `json:"role,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// NewProjectResponse renders a project; role is the caller's, empty when none
func NewProjectResponse(p *gormModels.Project, role constants.Role) *ProjectResponse {
	privacy := "private"
	if p.IsPublic {
		privacy = "public"
	}

	resp := &ProjectResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		Privacy:         privacy,
		ConsentRequired: p.ConsentRequired,
		Creator:         NewUserSummary(&p.Creator),
		Prompts:         make([]PromptResponse, 0, len(p.Prompts)),
		Codes:           NewCodeResponses(p.Codes),
		Role:            role,
		CreatedAt:       p.CreatedAt,
	}
	for _, prompt := range p.Prompts {
		resp.Prompts = append(resp.Prompts, PromptResponse{ID: prompt.ID, Text: prompt.Text, ImageURL: prompt.ImageURL})
	}
	return resp
}

func NewProjectList(projects []gormModels.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i], constants.RoleNone))
	}
	return out
}

func NewCodeResponses(codes []gormModels.Code) []CodeResponse {
	out := make([]CodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, CodeResponse{ID: c.ID, Name: c.Name})
	}
	return out
}
