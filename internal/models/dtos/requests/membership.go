package requests

import (
	"strings"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
)

type InviteRequest struct {
	Fullname string         `json:"fullname"`
	Email    string         `json:"email"`
	Role     constants.Role `json:"role,omitempty"`
}

func (r *InviteRequest) Validate() error {
	var v common.Validation
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Email = common.NormalizeEmail(r.Email)

	v.Check(r.Fullname != "", constants.ErrFullnameRequired)
	validateEmail(&v, r.Email)
	if r.Role == constants.RoleNone {
		r.Role = constants.RoleUser
	}
	v.Check(r.Role.IsValid(), constants.ErrRoleInvalid)
	return v.Err()
}

type ChangeRoleRequest struct {
	Role constants.Role `json:"role"`
}

func (r *ChangeRoleRequest) Validate() error {
	if !r.Role.IsValid() {
		return common.BadRequest(constants.ErrRoleInvalid)
	}
	return nil
}

type ConsentRequest struct {
	Consent string `json:"consent"`
}

// Type parses the requested consent level
func (r *ConsentRequest) Type() (constants.ConsentType, error) {
	ct, ok := constants.ParseConsentType(r.Consent)
	if !ok {
		return "", common.BadRequest(constants.ErrConsentInvalidType)
	}
	return ct, nil
}
