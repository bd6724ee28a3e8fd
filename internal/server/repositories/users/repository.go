// Package users declares the repository contract for identity records.
package users

import (
	"context"

	"github.com/mpetrenko/clipstream/internal/server/models"
)

// Repository defines the single-document operations the auth core needs,
// plus creation for registration.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsernameOrEmail matches either identifier; callers pass whichever
	// the client provided and an empty string for the other.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// UpdateRefreshToken overwrites the single session slot. A nil token
	// clears it.
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error

	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverImage string) (*models.User, error)
}
