package repositories

import (
	"context"
	"time"

	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// MembershipRepository handles membership rows. Rows are only ever inserted or
// flagged; nothing here deletes history.
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: tx}
}

// GetByID returns a membership with its user loaded
func (r *MembershipRepository) GetByID(ctx context.Context, id uint) (*gormModels.Membership, error) {
	var m gormModels.Membership
	err := r.db.WithContext(ctx).Preload("User").First(&m, id).Error
	if err != nil {
		return nil, wrap(err, "fetch membership")
	}
	return &m, nil
}

// GetActive returns the most recent non-deactivated row for the pair, confirmed or not
func (r *MembershipRepository) GetActive(ctx context.Context, userID, projectID uint) (*gormModels.Membership, error) {
	var m gormModels.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ? AND deactivated = ?", userID, projectID, false).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, wrap(err, "fetch active membership")
	}
	return &m, nil
}

// RoleOf returns the role of a confirmed, non-deactivated membership or RoleNone
func (r *MembershipRepository) RoleOf(ctx context.Context, userID, projectID uint) (constants.Role, error) {
	if userID == 0 {
		return constants.RoleNone, nil
	}

	var roles []constants.Role
	err := r.db.WithContext(ctx).
		Model(&gormModels.Membership{}).
		Where("user_id = ? AND project_id = ? AND confirmed = ? AND deactivated = ?", userID, projectID, true, false).
		Order("id DESC").
		Limit(1).
		Pluck("role", &roles).Error
	if err != nil {
		return constants.RoleNone, wrap(err, "fetch role")
	}
	if len(roles) == 0 {
		return constants.RoleNone, nil
	}
	return roles[0], nil
}

func (r *MembershipRepository) Create(ctx context.Context, m *gormModels.Membership) error {
	if m.StatusChangedAt.IsZero() {
		m.StatusChangedAt = time.Now()
	}
	return wrap(r.db.WithContext(ctx).Omit("User", "Project").Create(m).Error, "create membership")
}

// Deactivate flags the row as left or removed
func (r *MembershipRepository) Deactivate(ctx context.Context, m *gormModels.Membership) error {
	m.Deactivated = true
	m.StatusChangedAt = time.Now()
	err := r.db.WithContext(ctx).
		Model(m).
		Select("deactivated", "status_changed_at").
		Updates(m).Error
	return wrap(err, "deactivate membership")
}

// Confirm marks the invitation as accepted
func (r *MembershipRepository) Confirm(ctx context.Context, m *gormModels.Membership) error {
	m.Confirmed = true
	m.StatusChangedAt = time.Now()
	err := r.db.WithContext(ctx).
		Model(m).
		Select("confirmed", "status_changed_at").
		Updates(m).Error
	return wrap(err, "confirm membership")
}

// ConfirmAllForUser confirms every pending, non-deactivated membership of the user
func (r *MembershipRepository) ConfirmAllForUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Membership{}).
		Where("user_id = ? AND confirmed = ? AND deactivated = ?", userID, false, false).
		Updates(map[string]interface{}{"confirmed": true, "status_changed_at": time.Now()}).Error
	return wrap(err, "confirm memberships")
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, m *gormModels.Membership, role constants.Role) error {
	m.Role = role
	m.StatusChangedAt = time.Now()
	err := r.db.WithContext(ctx).
		Model(m).
		Select("role", "status_changed_at").
		Updates(m).Error
	return wrap(err, "update role")
}

// ListActiveByProject lists non-deactivated memberships, pending invites included
func (r *MembershipRepository) ListActiveByProject(ctx context.Context, projectID uint) ([]gormModels.Membership, error) {
	var members []gormModels.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND deactivated = ?", projectID, false).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, wrap(err, "list members")
	}
	return members, nil
}

// ListAllByUserAndProject returns the full history for the pair, newest first
func (r *MembershipRepository) ListAllByUserAndProject(ctx context.Context, userID, projectID uint) ([]gormModels.Membership, error) {
	var rows []gormModels.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap(err, "list membership history")
	}
	return rows, nil
}

// CountAdmins counts confirmed active admins of a project
func (r *MembershipRepository) CountAdmins(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Membership{}).
		Where("project_id = ? AND role = ? AND confirmed = ? AND deactivated = ?", projectID, constants.RoleAdmin, true, false).
		Count(&count).Error
	if err != nil {
		return 0, wrap(err, "count admins")
	}
	return count, nil
}
