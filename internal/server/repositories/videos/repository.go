// Package videos declares the repository contract for video metadata.
package videos

import (
	"context"

	"github.com/mpetrenko/clipstream/internal/server/models"
)

// ListFilter narrows and orders a video listing. SortBy must be one of the
// whitelisted columns; anything else falls back to created_at descending.
type ListFilter struct {
	OwnerID       string
	Query         string
	SortBy        string
	SortAscending bool
	PublishedOnly bool
	Limit         int
	Offset        int
}

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, f ListFilter) ([]*models.Video, error)
	Update(ctx context.Context, id, title, description, thumbnailKey string) (*models.Video, error)
	SetPublished(ctx context.Context, id string, published bool) (*models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
