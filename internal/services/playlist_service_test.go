package services

import (
	"encoding/json"
	"net/http"
	"sort"
	"testing"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *annotationFixture) itemRowIDs(t *testing.T, playlistID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, f.h.db.Model(&gormModels.PlaylistAnnotation{}).
		Where("playlist_id = ?", playlistID).
		Order("id").
		Pluck("id", &ids).Error)
	return ids
}

func itemIDs(view *PlaylistView) []uint {
	ids := make([]uint, 0, len(view.Items))
	for _, item := range view.Items {
		ids = append(ids, item.AnnotationID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestPlaylistService_UpdateIsIdempotent(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	a1 := f.create(t, f.alice, "one")
	a2 := f.create(t, f.bob, "two")
	a3 := f.create(t, f.bob, "three")

	view, err := h.playlists.Create(h.ctx, f.alice, requests.PlaylistRequest{
		Name:        "Highlights",
		Metadata:    json.RawMessage(`{"colour":"red"}`),
		Annotations: []uint{a1.ID, a2.ID, a1.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a2.ID}, itemIDs(view))
	assert.JSONEq(t, `{"colour":"red"}`, view.Playlist.Metadata)

	req := requests.PlaylistRequest{Name: "Highlights", Annotations: []uint{a2.ID, a3.ID}}
	view, err = h.playlists.Update(h.ctx, f.alice, view.Playlist.ID, req)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID, a3.ID}, itemIDs(view))
	rows := f.itemRowIDs(t, view.Playlist.ID)

	view, err = h.playlists.Update(h.ctx, f.alice, view.Playlist.ID, req)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID, a3.ID}, itemIDs(view))
	assert.Equal(t, rows, f.itemRowIDs(t, view.Playlist.ID), "identical update leaves reference rows alone")
	assert.JSONEq(t, `{"colour":"red"}`, view.Playlist.Metadata, "metadata kept when omitted")

	// nil annotations leaves the references unchanged
	view, err = h.playlists.Update(h.ctx, f.alice, view.Playlist.ID, requests.PlaylistRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Playlist.Name)
	assert.Equal(t, []uint{a2.ID, a3.ID}, itemIDs(view))
}

func TestPlaylistService_Tombstones(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	a1 := f.create(t, f.alice, "one")
	a2 := f.create(t, f.bob, "two")

	view, err := h.playlists.Create(h.ctx, f.alice, requests.PlaylistRequest{Name: "Mine", Annotations: []uint{a1.ID, a2.ID}})
	require.NoError(t, err)

	require.NoError(t, h.annotations.SoftDelete(h.ctx, f.bob, f.project.ID, f.session.ID, a2.ID))

	view, err = h.playlists.Get(h.ctx, f.alice, view.Playlist.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	for _, item := range view.Items {
		if item.AnnotationID == a2.ID {
			assert.True(t, item.Removed)
			assert.Nil(t, item.Annotation)
		} else {
			assert.False(t, item.Removed)
			require.NotNil(t, item.Annotation)
			assert.Equal(t, "one", item.Annotation.Content)
		}
	}

	// a deleted annotation can no longer be added
	_, err = h.playlists.Create(h.ctx, f.alice, requests.PlaylistRequest{Name: "Other", Annotations: []uint{a2.ID}})
	requireCode(t, err, http.StatusBadRequest, constants.ErrAnnotationUnknown)
}

func TestPlaylistService_HiddenSessions(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h
	a := f.create(t, f.alice, "one")

	view, err := h.playlists.Create(h.ctx, f.bob, requests.PlaylistRequest{Name: "Bob's", Annotations: []uint{a.ID}})
	require.NoError(t, err)

	// withdrawing consent hides the session from ordinary members
	h.setConsent(f.session.ID, f.owner, constants.ConsentNone)

	view, err = h.playlists.Get(h.ctx, f.bob, view.Playlist.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].Removed)

	_, err = h.playlists.Create(h.ctx, f.bob, requests.PlaylistRequest{Name: "Again", Annotations: []uint{a.ID}})
	requireCode(t, err, http.StatusForbidden, constants.ErrSessionHidden)
}

func TestPlaylistService_OwnerOnly(t *testing.T) {
	f := newAnnotationFixture(t)
	h := f.h

	view, err := h.playlists.Create(h.ctx, f.alice, requests.PlaylistRequest{Name: "Private"})
	require.NoError(t, err)

	_, err = h.playlists.Get(h.ctx, f.bob, view.Playlist.ID)
	requireCode(t, err, http.StatusUnauthorized, constants.ErrNotPlaylistOwner)
	_, err = h.playlists.Update(h.ctx, f.bob, view.Playlist.ID, requests.PlaylistRequest{Name: "Mine now"})
	requireCode(t, err, http.StatusUnauthorized, constants.ErrNotPlaylistOwner)
	err = h.playlists.SoftDelete(h.ctx, f.bob, view.Playlist.ID)
	requireCode(t, err, http.StatusUnauthorized, constants.ErrNotPlaylistOwner)

	_, err = h.playlists.Create(h.ctx, f.alice, requests.PlaylistRequest{Name: "Bad", Annotations: []uint{9999}})
	requireCode(t, err, http.StatusBadRequest, constants.ErrAnnotationUnknown)

	require.NoError(t, h.playlists.SoftDelete(h.ctx, f.alice, view.Playlist.ID))
	_, err = h.playlists.Get(h.ctx, f.alice, view.Playlist.ID)
	requireCode(t, err, http.StatusNotFound, constants.ErrPlaylistUnknown)

	listed, err := h.playlists.List(h.ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
