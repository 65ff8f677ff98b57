package services

import (
	"context"
	"errors"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

// PlaylistItem is one referenced annotation. Removed items are annotations
// that were deleted or can no longer be read by the owner.
type PlaylistItem struct {
	AnnotationID uint
	Removed      bool
	Annotation   *gormModels.Annotation
}

type PlaylistView struct {
	Playlist *gormModels.Playlist
	Items    []PlaylistItem
}

type PlaylistService struct {
	db          *gorm.DB
	gate        *AccessGate
	playlists   *repositories.PlaylistRepository
	annotations *repositories.AnnotationRepository
}

func NewPlaylistService(db *gorm.DB, gate *AccessGate) *PlaylistService {
	return &PlaylistService{
		db:          db,
		gate:        gate,
		playlists:   repositories.NewPlaylistRepository(db),
		annotations: repositories.NewAnnotationRepository(db),
	}
}

// List returns the caller's own active playlists
func (s *PlaylistService) List(ctx context.Context, caller *gormModels.User) ([]*PlaylistView, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	playlists, err := s.playlists.ListActiveByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	visible := map[string]bool{}
	views := make([]*PlaylistView, 0, len(playlists))
	for i := range playlists {
		view, err := s.render(ctx, caller, &playlists[i], visible)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *PlaylistService) Create(ctx context.Context, caller *gormModels.User, req requests.PlaylistRequest) (*PlaylistView, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ids := uniqueIDs(req.Annotations)
	if err := s.checkReadable(ctx, caller, ids); err != nil {
		return nil, err
	}

	playlist := &gormModels.Playlist{
		UserID:      caller.ID,
		Name:        req.Name,
		Description: req.Description,
		Metadata:    string(req.Metadata),
		IsActive:    true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.playlists.WithTx(tx)
		if err := repo.Create(ctx, playlist); err != nil {
			return err
		}
		return repo.AddItems(ctx, playlist.ID, ids)
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("Playlist created", "playlist_id", playlist.ID, "user_id", caller.ID)
	return s.Get(ctx, caller, playlist.ID)
}

// Get is owner only
func (s *PlaylistService) Get(ctx context.Context, caller *gormModels.User, playlistID uint) (*PlaylistView, error) {
	playlist, err := s.owned(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, caller, playlist, map[string]bool{})
}

// Update changes the details and, when Annotations is set, diffs the
// references: new ids are linked, missing ids unlinked, the rest untouched
func (s *PlaylistService) Update(ctx context.Context, caller *gormModels.User, playlistID uint, req requests.PlaylistRequest) (*PlaylistView, error) {
	playlist, err := s.owned(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var toAdd, toRemove []uint
	if req.Annotations != nil {
		current := make([]uint, 0, len(playlist.Items))
		for _, item := range playlist.Items {
			current = append(current, item.AnnotationID)
		}
		toAdd, toRemove = diffIDs(current, uniqueIDs(req.Annotations))
		if err := s.checkReadable(ctx, caller, toAdd); err != nil {
			return nil, err
		}
	}

	playlist.Name = req.Name
	playlist.Description = req.Description
	if req.Metadata != nil {
		playlist.Metadata = string(req.Metadata)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.playlists.WithTx(tx)
		if err := repo.Update(ctx, playlist); err != nil {
			return err
		}
		if err := repo.RemoveItems(ctx, playlist.ID, toRemove); err != nil {
			return err
		}
		return repo.AddItems(ctx, playlist.ID, toAdd)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, caller, playlist.ID)
}

// SoftDelete is owner only
func (s *PlaylistService) SoftDelete(ctx context.Context, caller *gormModels.User, playlistID uint) error {
	playlist, err := s.owned(ctx, caller, playlistID)
	if err != nil {
		return err
	}
	return s.playlists.SoftDelete(ctx, playlist)
}

func (s *PlaylistService) owned(ctx context.Context, caller *gormModels.User, playlistID uint) (*gormModels.Playlist, error) {
	if caller == nil {
		return nil, common.Unauthorized(constants.ErrAuthRequired)
	}
	playlist, err := s.playlists.GetActiveByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(constants.ErrPlaylistUnknown)
		}
		return nil, err
	}
	if playlist.UserID != caller.ID {
		return nil, notOwner(constants.ErrNotPlaylistOwner)
	}
	return playlist, nil
}

// checkReadable requires every id to be a live annotation the caller can see
func (s *PlaylistService) checkReadable(ctx context.Context, caller *gormModels.User, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	annotations, err := s.annotations.ListAllByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(annotations) != len(ids) {
		return common.BadRequest(constants.ErrAnnotationUnknown)
	}

	visible := map[string]bool{}
	for _, a := range annotations {
		if !a.IsActive {
			return common.BadRequest(constants.ErrAnnotationUnknown)
		}
		ok, err := s.sessionVisible(ctx, caller, a.SessionID, visible)
		if err != nil {
			return err
		}
		if !ok {
			return common.Forbidden(constants.ErrSessionHidden)
		}
	}
	return nil
}

func (s *PlaylistService) sessionVisible(ctx context.Context, caller *gormModels.User, sessionID string, cache map[string]bool) (bool, error) {
	if ok, seen := cache[sessionID]; seen {
		return ok, nil
	}
	ok, err := s.gate.CanSeeSession(ctx, caller, sessionID)
	if err != nil {
		return false, err
	}
	cache[sessionID] = ok
	return ok, nil
}

// render masks deleted or unreadable annotations with a tombstone
func (s *PlaylistService) render(ctx context.Context, caller *gormModels.User, playlist *gormModels.Playlist, cache map[string]bool) (*PlaylistView, error) {
	view := &PlaylistView{Playlist: playlist, Items: make([]PlaylistItem, 0, len(playlist.Items))}
	for i := range playlist.Items {
		item := &playlist.Items[i]
		entry := PlaylistItem{AnnotationID: item.AnnotationID}

		ok := item.Annotation.IsActive
		if ok {
			var err error
			if ok, err = s.sessionVisible(ctx, caller, item.Annotation.SessionID, cache); err != nil {
				return nil, err
			}
		}
		if ok {
			entry.Annotation = &item.Annotation
		} else {
			entry.Removed = true
		}
		view.Items = append(view.Items, entry)
	}
	return view, nil
}

// uniqueIDs drops repeats and keeps first-seen order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diffIDs returns ids only in next (to add) and only in current (to remove)
func diffIDs(current, next []uint) (toAdd, toRemove []uint) {
	cur := common.UintSet(current)
	nxt := common.UintSet(next)
	for _, id := range next {
		if _, ok := cur[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := nxt[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
