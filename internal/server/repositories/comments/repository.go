// Package comments declares the repository contract for video comments.
package comments

import (
	"context"

	"github.com/mpetrenko/clipstream/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}
