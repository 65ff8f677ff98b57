package requests

import (
	"strings"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
)

type RegisterRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate trims the name and normalizes the email in place
func (r *RegisterRequest) Validate() error {
	var v common.Validation
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Email = common.NormalizeEmail(r.Email)

	v.Check(r.Fullname != "", constants.ErrFullnameRequired)
	validateEmail(&v, r.Email)
	validatePassword(&v, r.Password)
	return v.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var v common.Validation
	r.Email = common.NormalizeEmail(r.Email)

	v.Check(r.Email != "", constants.ErrEmailRequired)
	v.Check(r.Password != "", constants.ErrPasswordRequired)
	return v.Err()
}

// RefreshRequest is used by both refresh and logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return common.BadRequest(constants.ErrTokenInvalid)
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var v common.Validation
	r.Email = common.NormalizeEmail(r.Email)
	validateEmail(&v, r.Email)
	return v.Err()
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var v common.Validation
	validatePassword(&v, r.Password)
	return v.Err()
}

// RegisterInvitedRequest lets a placeholder account holder set their own credentials
type RegisterInvitedRequest struct {
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

func (r *RegisterInvitedRequest) Validate() error {
	var v common.Validation
	r.Fullname = strings.TrimSpace(r.Fullname)
	v.Check(r.Fullname != "", constants.ErrFullnameRequired)
	validatePassword(&v, r.Password)
	return v.Err()
}

type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token"`
}

func (r *DeviceTokenRequest) Validate() error {
	r.DeviceToken = strings.TrimSpace(r.DeviceToken)
	if r.DeviceToken == "" {
		return common.BadRequest(constants.ErrDeviceTokenRequired)
	}
	return nil
}

func validateEmail(v *common.Validation, email string) {
	if email == "" {
		v.Add(constants.ErrEmailRequired)
		return
	}
	v.Check(common.IsEmail(email), constants.ErrEmailInvalid)
}

func validatePassword(v *common.Validation, password string) {
	if password == "" {
		v.Add(constants.ErrPasswordRequired)
		return
	}
	v.Check(len(password) >= constants.MinPasswordLength, constants.ErrPasswordTooShort)
	v.Check(len(password) <= constants.MaxPasswordLength, constants.ErrPasswordTooLong)
}
