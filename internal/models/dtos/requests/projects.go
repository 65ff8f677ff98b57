package requests

import (
	"strings"
	"unicode/utf8"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

type PromptInput struct {
	ID       *uint   `json:"id,omitempty"`
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url,omitempty"`
}

type CodeInput struct {
	ID   *uint  `json:"id,omitempty"`
	Name string `json:"name"`
}

type CreateProjectRequest struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Privacy         string        `json:"privacy"`
	ConsentRequired *bool         `json:"consent_required,omitempty"`
	Prompts         []PromptInput `json:"prompts"`
	Codes           []CodeInput   `json:"codes"`
}

func (r *CreateProjectRequest) Validate() error {
	var v common.Validation
	r.Title = strings.TrimSpace(r.Title)

	if r.Title == "" {
		v.Add(constants.ErrTitleRequired)
	} else {
		v.Check(utf8.RuneCountInString(r.Title) <= constants.MaxTitleLength, constants.ErrTitleTooLong)
	}
	v.Check(utf8.RuneCountInString(r.Description) <= constants.MaxDescriptionLength, constants.ErrDescriptionTooLong)
	if r.Privacy == "" {
		r.Privacy = PrivacyPrivate
	}
	v.Check(validPrivacy(r.Privacy), constants.ErrPrivacyInvalid)
	validatePrompts(&v, r.Prompts)
	validateCodes(&v, r.Codes)
	return v.Err()
}

// IsPublic is only meaningful after Validate
func (r *CreateProjectRequest) IsPublic() bool {
	return r.Privacy == PrivacyPublic
}

// UpdateProjectRequest is a patch: nil fields are left unchanged. A non-nil
// Prompts or Codes list replaces the set; entries with an id are kept or
// edited, entries without one are created, and the rest are retired.
type UpdateProjectRequest struct {
	Description     *string        `json:"description,omitempty"`
	Privacy         *string        `json:"privacy,omitempty"`
	ConsentRequired *bool          `json:"consent_required,omitempty"`
	Prompts         *[]PromptInput `json:"prompts,omitempty"`
	Codes           *[]CodeInput   `json:"codes,omitempty"`
}

func (r *UpdateProjectRequest) Validate() error {
	var v common.Validation
	if r.Description != nil {
		v.Check(utf8.RuneCountInString(*r.Description) <= constants.MaxDescriptionLength, constants.ErrDescriptionTooLong)
	}
	if r.Privacy != nil {
		v.Check(validPrivacy(*r.Privacy), constants.ErrPrivacyInvalid)
	}
	if r.Prompts != nil {
		validatePrompts(&v, *r.Prompts)
	}
	if r.Codes != nil {
		validateCodes(&v, *r.Codes)
	}
	return v.Err()
}

func validPrivacy(p string) bool {
	return p == PrivacyPublic || p == PrivacyPrivate
}

func validatePrompts(v *common.Validation, prompts []PromptInput) {
	for i := range prompts {
		prompts[i].Text = strings.TrimSpace(prompts[i].Text)
		if prompts[i].Text == "" {
			v.Add(constants.ErrPromptRequired)
			return
		}
		if utf8.RuneCountInString(prompts[i].Text) > constants.MaxContentLength {
			v.Add(constants.ErrContentTooLong)
			return
		}
	}
}

func validateCodes(v *common.Validation, codes []CodeInput) {
	for i := range codes {
		codes[i].Name = strings.TrimSpace(codes[i].Name)
		if codes[i].Name == "" {
			v.Add(constants.ErrCodeNameRequired)
			return
		}
	}
}
