package responses

import (
	"time"

	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"
)

type MembershipResponse struct {
	ID              uint           `json:"id"`
	ProjectID       uint           `json:"project_id"`
	User            *UserSummary   `json:"user,omitempty"`
	Role            constants.Role `json:"role"`
	Confirmed       bool           `json:"confirmed"`
	Deactivated     bool           `json:"deactivated"`
	InviteSentAt    *time.Time     `json:"invite_sent_at,omitempty"`
	StatusChangedAt time.Time      `json:"status_changed_at"`
}

func NewMembershipResponse(m *gormModels.Membership) *MembershipResponse {
	return &MembershipResponse{
		ID:              m.ID,
		ProjectID:       m.ProjectID,
		User:            NewUserSummary(&m.User),
		Role:            m.Role,
		Confirmed:       m.Confirmed,
		Deactivated:     m.Deactivated,
		InviteSentAt:    m.InviteSentAt,
		StatusChangedAt: m.StatusChangedAt,
	}
}

func NewMembershipList(memberships []gormModels.Membership) []*MembershipResponse {
	out := make([]*MembershipResponse, 0, len(memberships))
	for i := range memberships {
		out = append(out, NewMembershipResponse(&memberships[i]))
	}
	return out
}
