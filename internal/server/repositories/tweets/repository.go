// Package tweets declares the repository contract for tweets.
package tweets

import (
	"context"

	"github.com/mpetrenko/clipstream/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tweet *models.Tweet) (*models.Tweet, error)
	GetByID(ctx context.Context, id string) (*models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error)
	Update(ctx context.Context, id, content string) (*models.Tweet, error)
	Delete(ctx context.Context, id string) error
}
