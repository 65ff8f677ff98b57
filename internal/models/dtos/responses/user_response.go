package responses

import (
	"time"

	gormModels "gabber/annotator/internal/models/gorm"
)

// UserSummary is how other users appear: no email, no account state
type UserSummary struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
}

// UserDetailResponse is the caller's own account
type UserDetailResponse struct {
	ID         uint      `json:"id"`
	Fullname   string    `json:"fullname"`
	Email      string    `json:"email"`
	Registered bool      `json:"registered"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	User         *UserDetailResponse `json:"user"`
}

func NewUserSummary(u *gormModels.User) *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Fullname: u.Fullname}
}

func NewUserDetail(u *gormModels.User) *UserDetailResponse {
	return &UserDetailResponse{
		ID:         u.ID,
		Fullname:   u.Fullname,
		Email:      u.Email,
		Registered: u.Registered,
		Verified:   u.Verified,
		CreatedAt:  u.CreatedAt,
	}
}

func NewTokenResponse(accessToken, refreshToken string, u *gormModels.User) *TokenResponse {
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         NewUserDetail(u),
	}
}
