// Package likes declares the repository contract for likes on videos,
// comments, and tweets.
package likes

import (
	"context"

	"github.com/mpetrenko/clipstream/internal/server/models"
)

// TargetKind names the entity a like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// Target identifies a likeable entity.
type Target struct {
	Kind TargetKind
	ID   string
}

type Repository interface {
	Create(ctx context.Context, like *models.Like) (*models.Like, error)

	// Find returns the owner's like on the target, or common.ErrorNotFound.
	Find(ctx context.Context, ownerID string, target Target) (*models.Like, error)

	Delete(ctx context.Context, id string) error

	// ListLikedVideos returns the videos the owner has liked, newest like first.
	ListLikedVideos(ctx context.Context, ownerID string) ([]*models.Video, error)
}
