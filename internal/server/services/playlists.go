package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
)

// PlaylistService manages playlists and their video membership.
type PlaylistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPlaylistService(db *sql.DB, m repomanager.RepositoryManager) *PlaylistService {
	return &PlaylistService{db: db, repomanager: m}
}

// Create makes an empty playlist.
func (s *PlaylistService) Create(ctx context.Context, ownerID, name, description string) (*models.Playlist, error) {
	if name == "" {
		return nil, common.E(common.ErrorValidation, "Playlist name is required")
	}

	playlist, err := s.repomanager.Playlists(s.db).Create(ctx, &models.Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating playlist: %w", err)
	}
	return playlist, nil
}

// Get returns the playlist with its video ids in insertion order.
func (s *PlaylistService) Get(ctx context.Context, id string) (*models.Playlist, error) {
	playlist, err := s.repomanager.Playlists(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Playlist not found")
		}
		return nil, common.ErrorInternal
	}
	return playlist, nil
}

// ListByOwner returns the user's playlists.
func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	list, err := s.repomanager.Playlists(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing playlists: %w", err)
	}
	return list, nil
}

// Update renames a playlist. Only the owner may update it.
func (s *PlaylistService) Update(ctx context.Context, userID, id, name, description string) (*models.Playlist, error) {
	if name == "" {
		return nil, common.E(common.ErrorValidation, "Playlist name is required")
	}
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	playlist, err := s.repomanager.Playlists(s.db).Update(ctx, id, name, description)
	if err != nil {
		return nil, fmt.Errorf("error updating playlist: %w", err)
	}
	return playlist, nil
}

// Delete removes a playlist. Only the owner may delete it.
func (s *PlaylistService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Playlists(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting playlist: %w", err)
	}
	return nil
}

// AddVideo appends a video to the playlist. Adding the same video twice is
// a no-op. Only the owner may modify the playlist.
func (s *PlaylistService) AddVideo(ctx context.Context, userID, playlistID, videoID string) (*models.Playlist, error) {
	if _, err := s.getOwned(ctx, userID, playlistID); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Videos(s.db).GetByID(ctx, videoID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Video not found")
		}
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.Playlists(s.db).AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, fmt.Errorf("error adding video to playlist: %w", err)
	}
	return s.Get(ctx, playlistID)
}

// RemoveVideo drops a video from the playlist. Only the owner may modify
// the playlist.
func (s *PlaylistService) RemoveVideo(ctx context.Context, userID, playlistID, videoID string) (*models.Playlist, error) {
	if _, err := s.getOwned(ctx, userID, playlistID); err != nil {
		return nil, err
	}
	if err := s.repomanager.Playlists(s.db).RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, fmt.Errorf("error removing video from playlist: %w", err)
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) getOwned(ctx context.Context, userID, id string) (*models.Playlist, error) {
	playlist, err := s.repomanager.Playlists(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Playlist not found")
		}
		return nil, common.ErrorInternal
	}
	if playlist.OwnerID != userID {
		return nil, common.E(common.ErrorForbidden, "You are not allowed to modify this playlist")
	}
	return playlist, nil
}
