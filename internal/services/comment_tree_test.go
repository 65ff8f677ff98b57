package services

import (
	"testing"

	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id uint, parent uint, active bool) gormModels.Comment {
	c := gormModels.Comment{ID: id, Content: "c", IsActive: active, Creator: gormModels.User{ID: 1, Fullname: "Alice"}}
	if parent != 0 {
		c.ParentID = &parent
	}
	return c
}

func TestCommentArena_KeepsInputOrderAtEveryLevel(t *testing.T) {
	// newest first, as the repository returns them
	arena := newCommentArena([]gormModels.Comment{
		comment(5, 1, true),
		comment(4, 0, true),
		comment(3, 1, true),
		comment(2, 3, true),
		comment(1, 0, true),
	})

	thread := arena.Thread()
	require.Len(t, thread, 2)
	assert.Equal(t, uint(4), thread[0].Comment.ID)
	assert.Equal(t, uint(1), thread[1].Comment.ID)

	replies := thread[1].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, uint(5), replies[0].Comment.ID)
	assert.Equal(t, uint(3), replies[1].Comment.ID)
	require.Len(t, replies[1].Replies, 1)
	assert.Equal(t, uint(2), replies[1].Replies[0].Comment.ID)

	direct := arena.Replies(3)
	require.Len(t, direct, 1)
	assert.Equal(t, uint(2), direct[0].Comment.ID)
	assert.Empty(t, arena.Replies(2))
	assert.Empty(t, arena.Replies(42))
}

func TestCommentArena_MasksDeletedComments(t *testing.T) {
	arena := newCommentArena([]gormModels.Comment{
		comment(2, 1, true),
		comment(1, 0, false),
	})

	thread := arena.Thread()
	require.Len(t, thread, 1)
	assert.True(t, thread[0].Deleted)
	assert.Equal(t, constants.DeletedCommentPlaceholder, thread[0].Comment.Content)
	assert.Empty(t, thread[0].Comment.Creator.Fullname)
	require.Len(t, thread[0].Replies, 1)
	assert.False(t, thread[0].Replies[0].Deleted)
	assert.Equal(t, "Alice", thread[0].Replies[0].Comment.Creator.Fullname)
}

func TestCommentArena_OrphansSurfaceAtTopLevel(t *testing.T) {
	arena := newCommentArena([]gormModels.Comment{
		comment(2, 99, true),
		comment(1, 0, true),
	})
	thread := arena.Thread()
	require.Len(t, thread, 2)
	assert.Equal(t, uint(2), thread[0].Comment.ID)
}
