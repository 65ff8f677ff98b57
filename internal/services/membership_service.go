package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"
	"gabber/annotator/internal/providers"

	"gorm.io/gorm"
)

// MembershipService runs the invitation lifecycle and self-service join/leave
type MembershipService struct {
	db          *gorm.DB
	gate        *AccessGate
	identity    *IdentityService
	users       *repositories.UserRepositoryGORM
	memberships *repositories.MembershipRepository
	dispatcher  *Dispatcher
	metrics     *metrics.MetricsRegistry
	cfg         *config.Config
}

func NewMembershipService(db *gorm.DB, gate *AccessGate, identity *IdentityService, dispatcher *Dispatcher, m *metrics.MetricsRegistry, cfg *config.Config) *MembershipService {
	return &MembershipService{
		db:          db,
		gate:        gate,
		identity:    identity,
		users:       repositories.NewUserRepositoryGORM(db),
		memberships: repositories.NewMembershipRepository(db),
		dispatcher:  dispatcher,
		metrics:     m,
		cfg:         cfg,
	}
}

// RoleOf returns RoleNone without a confirmed, active membership
func (s *MembershipService) RoleOf(ctx context.Context, user *gormModels.User, projectID uint) (constants.Role, error) {
	return s.gate.RoleOf(ctx, user, projectID)
}

// Invite adds a user to the project by email. Unknown emails get a
// placeholder account. Registered invitees are confirmed straight away while
// placeholder accounts stay pending until they register.
func (s *MembershipService) Invite(ctx context.Context, caller *gormModels.User, projectID uint, req requests.InviteRequest) (*gormModels.Membership, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	access, err := s.gate.RequireStaff(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if req.Role != constants.RoleUser && access.Role != constants.RoleAdmin {
		return nil, common.Forbidden(constants.ErrRoleInsufficient)
	}

	var membership *gormModels.Membership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitee, err := s.identity.createUnregistered(ctx, s.users.WithTx(tx), req.Fullname, req.Email)
		if err != nil {
			return err
		}

		now := time.Now()
		membership = &gormModels.Membership{
			UserID:       invitee.ID,
			ProjectID:    projectID,
			Role:         req.Role,
			Confirmed:    invitee.Registered,
			InviteSentAt: &now,
			User:         *invitee,
		}
		return s.insertIfAbsent(ctx, tx, membership)
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Member invited", "project_id", projectID, "user_id", membership.UserID, "by", caller.ID)
	s.metrics.Membership("invite")
	s.sendInvite(access.Project, caller, &membership.User)
	return membership, nil
}

// ResendInvite emails a pending invitee again
func (s *MembershipService) ResendInvite(ctx context.Context, caller *gormModels.User, projectID, membershipID uint) (*gormModels.Membership, error) {
	access, err := s.gate.RequireStaff(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	membership, err := s.resolve(ctx, projectID, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.Confirmed {
		return nil, common.Conflict(constants.ErrMembershipExists)
	}

	now := time.Now()
	membership.InviteSentAt = &now
	err = s.db.WithContext(ctx).Model(membership).Update("invite_sent_at", now).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update invite: %w", err)
	}

	s.sendInvite(access.Project, caller, &membership.User)
	return membership, nil
}

// Revoke deactivates a membership; the user may be invited again later
func (s *MembershipService) Revoke(ctx context.Context, caller *gormModels.User, projectID, membershipID uint) (*gormModels.Membership, error) {
	access, err := s.gate.RequireStaff(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	membership, err := s.resolve(ctx, projectID, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.Role == constants.RoleAdmin && access.Role != constants.RoleAdmin {
		return nil, common.Forbidden(constants.ErrRoleInsufficient)
	}
	if err := s.guardLastAdmin(ctx, membership); err != nil {
		return nil, err
	}

	if err := s.memberships.Deactivate(ctx, membership); err != nil {
		return nil, err
	}
	logging.Info("Membership revoked", "membership_id", membership.ID, "by", caller.ID)
	s.metrics.Membership("revoke")
	return membership, nil
}

// JoinPublicProject lets any authenticated user become a member of a public project
func (s *MembershipService) JoinPublicProject(ctx context.Context, caller *gormModels.User, projectID uint) (*gormModels.Membership, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	project, err := s.gate.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsPublic {
		return nil, common.Forbidden(constants.ErrProjectNotPublic)
	}

	membership := &gormModels.Membership{
		UserID:    caller.ID,
		ProjectID: projectID,
		Role:      constants.RoleUser,
		Confirmed: true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insertIfAbsent(ctx, tx, membership)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Membership("join")
	return membership, nil
}

// LeaveProject deactivates the caller's most recent active membership
func (s *MembershipService) LeaveProject(ctx context.Context, caller *gormModels.User, projectID uint) (*gormModels.Membership, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	if _, err := s.gate.Project(ctx, projectID); err != nil {
		return nil, err
	}

	membership, err := s.memberships.GetActive(ctx, caller.ID, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.BadRequest(constants.ErrNotAMember)
		}
		return nil, err
	}
	if err := s.guardLastAdmin(ctx, membership); err != nil {
		return nil, err
	}
	if err := s.memberships.Deactivate(ctx, membership); err != nil {
		return nil, err
	}

	s.metrics.Membership("leave")
	return membership, nil
}

// AcceptInvite confirms a pending membership of the caller
func (s *MembershipService) AcceptInvite(ctx context.Context, caller *gormModels.User, projectID, membershipID uint) (*gormModels.Membership, error) {
	membership, err := s.inviteeMembership(ctx, caller, projectID, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.Confirmed {
		return membership, nil
	}
	if err := s.memberships.Confirm(ctx, membership); err != nil {
		return nil, err
	}
	s.metrics.Membership("accept")
	return membership, nil
}

// DeclineInvite lets the invitee turn the invitation down
func (s *MembershipService) DeclineInvite(ctx context.Context, caller *gormModels.User, projectID, membershipID uint) (*gormModels.Membership, error) {
	membership, err := s.inviteeMembership(ctx, caller, projectID, membershipID)
	if err != nil {
		return nil, err
	}
	if err := s.guardLastAdmin(ctx, membership); err != nil {
		return nil, err
	}
	if err := s.memberships.Deactivate(ctx, membership); err != nil {
		return nil, err
	}
	s.metrics.Membership("decline")
	return membership, nil
}

// IsInvitee reports whether the membership belongs to the caller
func (s *MembershipService) IsInvitee(ctx context.Context, caller *gormModels.User, membershipID uint) bool {
	if caller == nil {
		return false
	}
	membership, err := s.memberships.GetByID(ctx, membershipID)
	return err == nil && membership.UserID == caller.ID
}

// ChangeRole is restricted to admins
func (s *MembershipService) ChangeRole(ctx context.Context, caller *gormModels.User, projectID, membershipID uint, req requests.ChangeRoleRequest) (*gormModels.Membership, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.gate.RequireAdmin(ctx, caller, projectID); err != nil {
		return nil, err
	}
	membership, err := s.resolve(ctx, projectID, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.Role == req.Role {
		return membership, nil
	}
	if err := s.guardLastAdmin(ctx, membership); err != nil {
		return nil, err
	}
	if err := s.memberships.UpdateRole(ctx, membership, req.Role); err != nil {
		return nil, err
	}
	s.metrics.Membership("role")
	return membership, nil
}

// ListMembers returns active and pending members
func (s *MembershipService) ListMembers(ctx context.Context, caller *gormModels.User, projectID uint) ([]gormModels.Membership, error) {
	if _, err := s.gate.RequireStaff(ctx, caller, projectID); err != nil {
		return nil, err
	}
	return s.memberships.ListActiveByProject(ctx, projectID)
}

// insertIfAbsent creates the row unless the pair already has an active one.
// The partial unique index catches the race the read cannot.
func (s *MembershipService) insertIfAbsent(ctx context.Context, tx *gorm.DB, membership *gormModels.Membership) error {
	repo := s.memberships.WithTx(tx)

	_, err := repo.GetActive(ctx, membership.UserID, membership.ProjectID)
	if err == nil {
		return common.Conflict(constants.ErrMembershipExists)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	if err := repo.Create(ctx, membership); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return common.Conflict(constants.ErrMembershipExists)
		}
		return err
	}
	return nil
}

func (s *MembershipService) resolve(ctx context.Context, projectID, membershipID uint) (*gormModels.Membership, error) {
	membership, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrMembershipUnknown)
		}
		return nil, err
	}
	if membership.ProjectID != projectID {
		return nil, common.BadRequest(constants.ErrMembershipNotInProject)
	}
	if membership.Deactivated {
		return nil, common.Conflict(constants.ErrMembershipRemoved)
	}
	return membership, nil
}

func (s *MembershipService) inviteeMembership(ctx context.Context, caller *gormModels.User, projectID, membershipID uint) (*gormModels.Membership, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	if _, err := s.gate.Project(ctx, projectID); err != nil {
		return nil, err
	}
	membership, err := s.resolve(ctx, projectID, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.UserID != caller.ID {
		return nil, common.Forbidden(constants.ErrNotInvitee)
	}
	return membership, nil
}

// guardLastAdmin refuses to remove or demote the only confirmed admin
func (s *MembershipService) guardLastAdmin(ctx context.Context, membership *gormModels.Membership) error {
	if membership.Role != constants.RoleAdmin || !membership.IsActive() {
		return nil
	}
	admins, err := s.memberships.CountAdmins(ctx, membership.ProjectID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return common.Conflict(constants.ErrLastAdmin)
	}
	return nil
}

func (s *MembershipService) sendInvite(project *gormModels.Project, inviter, invitee *gormModels.User) {
	email := providers.ActionEmail{
		Subject: fmt.Sprintf("You have been added to %s", project.Title),
		Name:    invitee.Fullname,
		TopBody: fmt.Sprintf("%s added you to the project %s.", inviter.Fullname, project.Title),
	}

	if invitee.Registered {
		email.ButtonURL = fmt.Sprintf("%s/projects/%d", s.cfg.WebClientURL, project.ID)
		email.ButtonLabel = "Open project"
	} else {
		link, err := s.identity.RegistrationLink(invitee)
		if err != nil {
			logging.Warn("Could not build registration link", "user_id", invitee.ID, "error", err)
			return
		}
		email.ButtonURL = link
		email.ButtonLabel = "Create your account"
		email.BottomBody = "Set a password to join the project."
	}
	s.dispatcher.Email(invitee.Email, email)
}
