package services

import (
	"context"
	"errors"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// Access is the outcome of a successful gate check
type Access struct {
	Project *gormModels.Project
	Caller  *gormModels.User
	Role    constants.Role
}

// CallerID is 0 for anonymous callers
func (a *Access) CallerID() uint {
	if a.Caller == nil {
		return 0
	}
	return a.Caller.ID
}

// AccessGate is the authorization policy consulted before every project
// scoped operation. A nil caller is anonymous.
type AccessGate struct {
	projects    *repositories.ProjectRepository
	memberships *repositories.MembershipRepository
	sessions    *repositories.SessionRepository
	annotations *repositories.AnnotationRepository
	comments    *repositories.CommentRepository
}

func NewAccessGate(db *gorm.DB) *AccessGate {
	return &AccessGate{
		projects:    repositories.NewProjectRepository(db),
		memberships: repositories.NewMembershipRepository(db),
		sessions:    repositories.NewSessionRepository(db),
		annotations: repositories.NewAnnotationRepository(db),
		comments:    repositories.NewCommentRepository(db),
	}
}

// Project loads an active project
func (g *AccessGate) Project(ctx context.Context, projectID uint) (*gormModels.Project, error) {
	project, err := g.projects.GetActiveByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrProjectUnknown)
		}
		return nil, err
	}
	return project, nil
}

// RoleOf returns the caller's confirmed role or RoleNone
func (g *AccessGate) RoleOf(ctx context.Context, caller *gormModels.User, projectID uint) (constants.Role, error) {
	if caller == nil {
		return constants.RoleNone, nil
	}
	return g.memberships.RoleOf(ctx, caller.ID, projectID)
}

// CanRead allows anyone on public projects and confirmed members on private ones
func (g *AccessGate) CanRead(ctx context.Context, caller *gormModels.User, projectID uint) (*Access, error) {
	access, err := g.load(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if access.Project.IsPublic {
		return access, nil
	}
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	if access.Role == constants.RoleNone {
		return nil, common.Forbidden(constants.ErrProjectNotMember)
	}
	return access, nil
}

// CanWrite requires a confirmed membership whatever the project visibility
func (g *AccessGate) CanWrite(ctx context.Context, caller *gormModels.User, projectID uint) (*Access, error) {
	access, err := g.load(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	if access.Role == constants.RoleNone {
		return nil, common.Forbidden(constants.ErrProjectNotMember)
	}
	return access, nil
}

// RequireStaff gates role restricted actions to admins and staff
func (g *AccessGate) RequireStaff(ctx context.Context, caller *gormModels.User, projectID uint) (*Access, error) {
	access, err := g.CanWrite(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if !access.Role.IsPrivileged() {
		return nil, common.Forbidden(constants.ErrRoleInsufficient)
	}
	return access, nil
}

// RequireAdmin gates actions that only admins may take
func (g *AccessGate) RequireAdmin(ctx context.Context, caller *gormModels.User, projectID uint) (*Access, error) {
	access, err := g.CanWrite(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if access.Role != constants.RoleAdmin {
		return nil, common.Forbidden(constants.ErrRoleInsufficient)
	}
	return access, nil
}

func (g *AccessGate) load(ctx context.Context, caller *gormModels.User, projectID uint) (*Access, error) {
	project, err := g.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	role, err := g.RoleOf(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	return &Access{Project: project, Caller: caller, Role: role}, nil
}

// ResolveSession checks the session exists and belongs to the project
func (g *AccessGate) ResolveSession(ctx context.Context, projectID uint, sessionID string) (*gormModels.InterviewSession, error) {
	session, err := g.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrSessionUnknown)
		}
		return nil, err
	}
	if session.ProjectID != projectID {
		return nil, common.BadRequest(constants.ErrSessionNotInProject)
	}
	return session, nil
}

// ResolveAnnotation checks the annotation is active and belongs to the session
func (g *AccessGate) ResolveAnnotation(ctx context.Context, sessionID string, annotationID uint) (*gormModels.Annotation, error) {
	annotation, err := g.annotations.GetActiveByID(ctx, annotationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrAnnotationUnknown)
		}
		return nil, err
	}
	if annotation.SessionID != sessionID {
		return nil, common.BadRequest(constants.ErrAnnotationNotInSession)
	}
	return annotation, nil
}

// ResolveComment checks the comment belongs to the annotation. Deleted
// comments still resolve so replies can hang under them.
func (g *AccessGate) ResolveComment(ctx context.Context, annotationID, commentID uint) (*gormModels.Comment, error) {
	comment, err := g.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrCommentUnknown)
		}
		return nil, err
	}
	if comment.AnnotationID != annotationID {
		return nil, common.BadRequest(constants.ErrCommentNotInAnnotation)
	}
	return comment, nil
}

// SessionPath resolves and authorizes a session read in one step
func (g *AccessGate) SessionPath(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, write bool) (*Access, *gormModels.InterviewSession, error) {
	// resolve before authorizing so mismatched ids never reach the policy
	if _, err := g.Project(ctx, projectID); err != nil {
		return nil, nil, err
	}
	session, err := g.ResolveSession(ctx, projectID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	access, err := g.authorizeSession(ctx, caller, session, write)
	if err != nil {
		return nil, nil, err
	}
	return access, session, nil
}

// Path is a resolved project/session/annotation chain with an optional comment
type Path struct {
	Access     *Access
	Session    *gormModels.InterviewSession
	Annotation *gormModels.Annotation
	Comment    *gormModels.Comment
}

// AnnotationPath resolves the whole chain down to the annotation, and the
// comment when commentID is set, before any policy check runs.
func (g *AccessGate) AnnotationPath(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint, commentID *uint, write bool) (*Path, error) {
	if _, err := g.Project(ctx, projectID); err != nil {
		return nil, err
	}
	session, err := g.ResolveSession(ctx, projectID, sessionID)
	if err != nil {
		return nil, err
	}
	annotation, err := g.ResolveAnnotation(ctx, sessionID, annotationID)
	if err != nil {
		return nil, err
	}
	path := &Path{Session: session, Annotation: annotation}
	if commentID != nil {
		if path.Comment, err = g.ResolveComment(ctx, annotationID, *commentID); err != nil {
			return nil, err
		}
	}

	if path.Access, err = g.authorizeSession(ctx, caller, session, write); err != nil {
		return nil, err
	}
	return path, nil
}

func (g *AccessGate) authorizeSession(ctx context.Context, caller *gormModels.User, session *gormModels.InterviewSession, write bool) (*Access, error) {
	var (
		access *Access
		err    error
	)
	if write {
		access, err = g.CanWrite(ctx, caller, session.ProjectID)
	} else {
		access, err = g.CanRead(ctx, caller, session.ProjectID)
	}
	if err != nil {
		return nil, err
	}
	if !SessionVisible(access, session) {
		return nil, common.Forbidden(constants.ErrSessionHidden)
	}
	return access, nil
}

// SessionVisible applies the consent rule. Creator, participants, admins and
// staff always see the session; everyone else sees it only when the weakest
// participant consent allows it.
func SessionVisible(access *Access, session *gormModels.InterviewSession) bool {
	callerID := access.CallerID()
	if callerID != 0 {
		if session.CreatorID == callerID || access.Role.IsPrivileged() {
			return true
		}
		for _, p := range session.Participants {
			if p.UserID == callerID {
				return true
			}
		}
	}
	if !access.Project.ConsentRequired {
		return true
	}

	switch MinimumConsent(session) {
	case constants.ConsentPublic:
		return true
	case constants.ConsentPrivate:
		return access.Role != constants.RoleNone
	default:
		return false
	}
}

// MinimumConsent is the most restrictive consent across participants. A
// participant without a consent row counts as none.
func MinimumConsent(session *gormModels.InterviewSession) constants.ConsentType {
	byUser := make(map[uint]constants.ConsentType, len(session.Consents))
	for _, c := range session.Consents {
		byUser[c.UserID] = c.Type
	}

	if len(session.Participants) == 0 {
		return constants.ConsentNone
	}

	lowest := constants.ConsentPublic
	for _, p := range session.Participants {
		ct, ok := byUser[p.UserID]
		if !ok {
			return constants.ConsentNone
		}
		if ct.Rank() < lowest.Rank() {
			lowest = ct
		}
	}
	return lowest
}

func notOwner(code string) error {
	return common.Unauthorized(code)
}

// CanSeeSession reports whether caller may read the session, hiding policy
// errors. Used where unreadable content is masked rather than rejected.
func (g *AccessGate) CanSeeSession(ctx context.Context, caller *gormModels.User, sessionID string) (bool, error) {
	session, err := g.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	access, err := g.CanRead(ctx, caller, session.ProjectID)
	if err != nil {
		if _, ok := common.AsAppError(err); ok {
			return false, nil
		}
		return false, err
	}
	return SessionVisible(access, session), nil
}
