package services

import (
	"context"
	"fmt"
	"strconv"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// CommentService manages threaded discussion on annotations
type CommentService struct {
	gate       *AccessGate
	comments   *repositories.CommentRepository
	users      *repositories.UserRepositoryGORM
	dispatcher *Dispatcher
	metrics    *metrics.MetricsRegistry
}

func NewCommentService(db *gorm.DB, gate *AccessGate, dispatcher *Dispatcher, m *metrics.MetricsRegistry) *CommentService {
	return &CommentService{
		gate:       gate,
		comments:   repositories.NewCommentRepository(db),
		users:      repositories.NewUserRepositoryGORM(db),
		dispatcher: dispatcher,
		metrics:    m,
	}
}

// Create attaches a comment to the annotation, or to a parent comment given
// either as parentID or in the request body
func (s *CommentService) Create(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint, parentID *uint, req requests.CommentRequest) (*gormModels.Comment, error) {
	if req.ParentID != nil {
		if parentID != nil && *parentID != *req.ParentID {
			return nil, common.BadRequest(constants.ErrParentMismatch)
		}
		parentID = req.ParentID
	}

	path, err := s.gate.AnnotationPath(ctx, caller, projectID, sessionID, annotationID, parentID, true)
	if err != nil {
		return nil, err
	}

	// the author notified is the parent comment's, or the annotation's for top-level comments
	recipient := path.Annotation.CreatorID
	if path.Comment != nil {
		if !path.Comment.IsActive {
			return nil, common.NotFound(constants.ErrCommentUnknown)
		}
		recipient = path.Comment.CreatorID
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	comment := &gormModels.Comment{
		AnnotationID: annotationID,
		ParentID:     parentID,
		CreatorID:    caller.ID,
		Content:      req.Content,
		IsActive:     true,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Creator = *caller

	s.metrics.Comment()
	s.notify(ctx, caller, recipient, projectID, sessionID, comment)
	return comment, nil
}

// Thread renders all comments of an annotation, newest first at every level
func (s *CommentService) Thread(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint) ([]*CommentNode, error) {
	arena, err := s.arena(ctx, caller, projectID, sessionID, annotationID, nil)
	if err != nil {
		return nil, err
	}
	return arena.Thread(), nil
}

// Replies renders the direct replies of a comment, newest first
func (s *CommentService) Replies(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID, commentID uint) ([]*CommentNode, error) {
	arena, err := s.arena(ctx, caller, projectID, sessionID, annotationID, &commentID)
	if err != nil {
		return nil, err
	}
	return arena.Replies(commentID), nil
}

// SoftDelete is creator only; replies stay attached
func (s *CommentService) SoftDelete(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID, commentID uint) error {
	path, err := s.gate.AnnotationPath(ctx, caller, projectID, sessionID, annotationID, &commentID, true)
	if err != nil {
		return err
	}
	comment := path.Comment
	if !comment.IsActive {
		return common.NotFound(constants.ErrCommentUnknown)
	}
	if comment.CreatorID != caller.ID {
		return notOwner(constants.ErrNotCommentCreator)
	}
	return s.comments.SoftDelete(ctx, comment)
}

func (s *CommentService) arena(ctx context.Context, caller *gormModels.User, projectID uint, sessionID string, annotationID uint, commentID *uint) (*commentArena, error) {
	if _, err := s.gate.AnnotationPath(ctx, caller, projectID, sessionID, annotationID, commentID, false); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListAllByAnnotation(ctx, annotationID)
	if err != nil {
		return nil, err
	}
	return newCommentArena(comments), nil
}

func (s *CommentService) notify(ctx context.Context, caller *gormModels.User, recipientID, projectID uint, sessionID string, comment *gormModels.Comment) {
	if recipientID == caller.ID {
		return
	}
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		logging.Warn("Could not load comment recipient", "user_id", recipientID, "error", err)
		return
	}
	s.dispatcher.Push(recipient.DeviceToken,
		fmt.Sprintf("%s replied", caller.Fullname),
		comment.Content,
		map[string]string{
			"project_id":    strconv.FormatUint(uint64(projectID), 10),
			"session_id":    sessionID,
			"annotation_id": strconv.FormatUint(uint64(comment.AnnotationID), 10),
			"comment_id":    strconv.FormatUint(uint64(comment.ID), 10),
		},
	)
}
