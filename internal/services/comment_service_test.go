package services

import (
	"net/http"
	"testing"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *annotationFixture) comment(t *testing.T, caller *gormModels.User, annotationID uint, parentID *uint, content string) *gormModels.Comment {
	t.Helper()
	c, err := f.h.comments.Create(f.h.ctx, caller, f.project.ID, f.session.ID, annotationID, parentID, requests.CommentRequest{Content: content})
	require.NoError(t, err)
	return c
}

func TestCommentService_Threading(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	a := f.create(t, f.alice, "annotation")

	top := f.comment(t, f.bob, a.ID, nil, "top level")
	reply := f.comment(t, f.alice, a.ID, &top.ID, "a reply")
	second := f.comment(t, f.owner, a.ID, nil, "second top level")

	thread, err := h.comments.Thread(h.ctx, f.bob, f.project.ID, f.session.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, second.ID, thread[0].Comment.ID, "newest first")
	assert.Equal(t, top.ID, thread[1].Comment.ID)
	require.Len(t, thread[1].Replies, 1)
	assert.Equal(t, reply.ID, thread[1].Replies[0].Comment.ID)

	replies, err := h.comments.Replies(h.ctx, f.bob, f.project.ID, f.session.ID, a.ID, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "a reply", replies[0].Comment.Content)

	replies, err = h.comments.Replies(h.ctx, f.bob, f.project.ID, f.session.ID, a.ID, reply.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestCommentService_DeletedPlaceholder(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	a := f.create(t, f.alice, "annotation")
	top := f.comment(t, f.bob, a.ID, nil, "soon gone")
	f.comment(t, f.alice, a.ID, &top.ID, "still here")

	err := h.comments.SoftDelete(h.ctx, f.alice, f.project.ID, f.session.ID, a.ID, top.ID)
	requireCode(t, err, http.StatusUnauthorized, constants.ErrNotCommentCreator)

	require.NoError(t, h.comments.SoftDelete(h.ctx, f.bob, f.project.ID, f.session.ID, a.ID, top.ID))

	thread, err := h.comments.Thread(h.ctx, f.alice, f.project.ID, f.session.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.True(t, thread[0].Deleted)
	assert.Equal(t, constants.DeletedCommentPlaceholder, thread[0].Comment.Content)
	assert.Zero(t, thread[0].Comment.Creator.ID)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "still here", thread[0].Replies[0].Comment.Content)

	_, err = h.comments.Create(h.ctx, f.alice, f.project.ID, f.session.ID, a.ID, &top.ID, requests.CommentRequest{Content: "late"})
	requireCode(t, err, http.StatusNotFound, constants.ErrCommentUnknown)

	err = h.comments.SoftDelete(h.ctx, f.bob, f.project.ID, f.session.ID, a.ID, top.ID)
	requireCode(t, err, http.StatusNotFound, constants.ErrCommentUnknown)
}

func TestCommentService_ParentMustBelongToAnnotation(t *testing.T) {
	f := newAnnotationFixture(t)
	first := f.create(t, f.alice, "first")
	second := f.create(t, f.alice, "second")
	c := f.comment(t, f.bob, first.ID, nil, "on first")

	_, err := f.h.comments.Create(f.h.ctx, f.bob, f.project.ID, f.session.ID, second.ID, &c.ID, requests.CommentRequest{Content: "x"})
	requireCode(t, err, http.StatusBadRequest, constants.ErrCommentNotInAnnotation)

	missing := uint(9999)
	_, err = f.h.comments.Create(f.h.ctx, f.bob, f.project.ID, f.session.ID, second.ID, &missing, requests.CommentRequest{Content: "x"})
	requireCode(t, err, http.StatusNotFound, constants.ErrCommentUnknown)

	_, err = f.h.comments.Create(f.h.ctx, f.bob, f.project.ID, f.session.ID, second.ID, nil, requests.CommentRequest{Content: "  "})
	requireCode(t, err, http.StatusBadRequest, constants.ErrContentRequired)
}

func TestCommentService_ParentFromBody(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	a := f.create(t, f.alice, "annotation")
	top := f.comment(t, f.bob, a.ID, nil, "top level")
	other := f.comment(t, f.bob, a.ID, nil, "another")

	reply, err := h.comments.Create(h.ctx, f.alice, f.project.ID, f.session.ID, a.ID, nil, requests.CommentRequest{Content: "via body", ParentID: &top.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	replies, err := h.comments.Replies(h.ctx, f.bob, f.project.ID, f.session.ID, a.ID, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "via body", replies[0].Comment.Content)

	_, err = h.comments.Create(h.ctx, f.alice, f.project.ID, f.session.ID, a.ID, &top.ID, requests.CommentRequest{Content: "x", ParentID: &other.ID})
	requireCode(t, err, http.StatusBadRequest, constants.ErrParentMismatch)

	second := f.create(t, f.alice, "second")
	_, err = h.comments.Create(h.ctx, f.alice, f.project.ID, f.session.ID, second.ID, nil, requests.CommentRequest{Content: "x", ParentID: &top.ID})
	requireCode(t, err, http.StatusBadRequest, constants.ErrCommentNotInAnnotation)
}

func TestCommentService_NotifiesAuthor(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	require.NoError(t, h.identity.SetDeviceToken(h.ctx, f.alice, requests.DeviceTokenRequest{DeviceToken: "alice-device"}))
	require.NoError(t, h.identity.SetDeviceToken(h.ctx, f.bob, requests.DeviceTokenRequest{DeviceToken: "bob-device"}))

	a := f.create(t, f.alice, "annotation")
	top := f.comment(t, f.bob, a.ID, nil, "to the annotation author")
	f.comment(t, f.alice, a.ID, &top.ID, "to the comment author")
	f.comment(t, f.alice, a.ID, nil, "own annotation, no push")
	h.dispatcher.Wait()

	pushes := h.notifier.Pushes()
	require.Len(t, pushes, 2)
	byDevice := map[string]sentPush{}
	for _, p := range pushes {
		byDevice[p.DeviceToken] = p
	}
	require.Contains(t, byDevice, "alice-device")
	require.Contains(t, byDevice, "bob-device")
	assert.Equal(t, f.session.ID, byDevice["alice-device"].Data["session_id"])
	assert.Equal(t, "Bob replied", byDevice["alice-device"].Title)
}
