// Package playlists declares the repository contract for playlists and their
// video membership.
package playlists

import (
	"context"

	"github.com/mpetrenko/clipstream/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error)

	// GetByID returns the playlist with VideoIDs populated in insertion order.
	GetByID(ctx context.Context, id string) (*models.Playlist, error)

	ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error)
	Update(ctx context.Context, id, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, id string) error

	// AddVideo is idempotent; adding a video twice is not an error.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}
